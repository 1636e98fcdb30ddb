// ABOUTME: Embedded key-value storage for habits using badger.
// ABOUTME: Records are JSON values under type-prefixed keys with client-side filtering.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

const (
	HabitPrefix      = "habit:"
	CompletionPrefix = "completion:"
)

// KVStore stores habits and completions in a badger database.
type KVStore struct {
	db *badger.DB
}

// Compile-time check that KVStore implements Repository.
var _ Repository = (*KVStore)(nil)

// OpenKV opens or creates a badger database in dir.
func OpenKV(dir string) (*KVStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	return &KVStore{db: db}, nil
}

// OpenKVInMemory opens a badger database that lives only in memory.
func OpenKVInMemory() (*KVStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	return &KVStore{db: db}, nil
}

// KVDir returns the badger directory inside dataDir.
func KVDir(dataDir string) string {
	return filepath.Join(dataDir, "kv")
}

// Close closes the badger database.
func (s *KVStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// put stores v as JSON. With create set, an existing key is an error.
func (s *KVStore) put(key string, v any, create bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		switch {
		case err == nil && create:
			return fmt.Errorf("already exists: %s", key)
		case errors.Is(err, badger.ErrKeyNotFound) && !create:
			return fmt.Errorf("not found: %s", key)
		case err != nil && !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set([]byte(key), data)
	})
}

// exists reports whether key is present.
func (s *KVStore) exists(key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// listByPrefix returns every value whose key starts with prefix.
func (s *KVStore) listByPrefix(prefix string) ([][]byte, error) {
	var results [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			results = append(results, val)
		}
		return nil
	})
	return results, err
}

// resolveKey finds the single key under typePrefix whose ID starts with idOrPrefix.
func (s *KVStore) resolveKey(typePrefix, idOrPrefix string) ([]byte, error) {
	var matches [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(typePrefix + idOrPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			matches = append(matches, it.Item().KeyCopy(nil))
			if len(matches) > 1 {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}
	return matches[0], nil
}

func (s *KVStore) get(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// CreateHabit stores a new habit.
func (s *KVStore) CreateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	if err := s.put(HabitPrefix+h.ID.String(), h, true); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID or ID prefix.
func (s *KVStore) GetHabit(idOrPrefix string) (*models.Habit, error) {
	key, err := s.resolveKey(HabitPrefix, idOrPrefix)
	if err != nil {
		return nil, err
	}
	var h models.Habit
	if err := s.get(key, &h); err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &h, nil
}

// ListHabits returns habits ordered by creation time.
func (s *KVStore) ListHabits(userID string) ([]*models.Habit, error) {
	values, err := s.listByPrefix(HabitPrefix)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	var habits []*models.Habit
	for _, data := range values {
		var h models.Habit
		if err := json.Unmarshal(data, &h); err != nil {
			continue // Skip invalid entries
		}
		habits = append(habits, &h)
	}
	return filterHabits(habits, userID), nil
}

// UpdateHabit overwrites the mutable fields of an existing habit.
func (s *KVStore) UpdateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}

	existing, err := s.GetHabit(h.ID.String())
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	existing.Title = h.Title
	existing.Description = h.Description
	existing.Frequency = h.Frequency

	if err := s.put(HabitPrefix+h.ID.String(), existing, false); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	return nil
}

// DeleteHabit removes a habit and its completions in one transaction.
func (s *KVStore) DeleteHabit(idOrPrefix string) error {
	key, err := s.resolveKey(HabitPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	habitID, err := uuid.Parse(string(key[len(HabitPrefix):]))
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	var doomed [][]byte
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(CompletionPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var c models.Completion
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			})
			if err != nil {
				continue
			}
			if c.HabitID == habitID {
				doomed = append(doomed, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, k := range doomed {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// CreateCompletion stores a completion. The habit must exist.
func (s *KVStore) CreateCompletion(c *models.Completion) error {
	ok, err := s.exists(HabitPrefix + c.HabitID.String())
	if err != nil {
		return fmt.Errorf("create completion: %w", err)
	}
	if !ok {
		return fmt.Errorf("create completion: habit not found: %s", c.HabitID)
	}
	if err := s.put(CompletionPrefix+c.ID.String(), c, true); err != nil {
		return fmt.Errorf("create completion: %w", err)
	}
	return nil
}

// GetCompletion retrieves a completion by ID or ID prefix.
func (s *KVStore) GetCompletion(idOrPrefix string) (*models.Completion, error) {
	key, err := s.resolveKey(CompletionPrefix, idOrPrefix)
	if err != nil {
		return nil, err
	}
	var c models.Completion
	if err := s.get(key, &c); err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return &c, nil
}

// ListCompletions retrieves completions sorted by CompletedAt descending.
func (s *KVStore) ListCompletions(userID string, habitID *uuid.UUID, limit int) ([]*models.Completion, error) {
	values, err := s.listByPrefix(CompletionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}

	var all []*models.Completion
	for _, data := range values {
		var c models.Completion
		if err := json.Unmarshal(data, &c); err != nil {
			continue // Skip invalid entries
		}
		all = append(all, &c)
	}
	return filterCompletions(all, userID, habitID, limit), nil
}

// DeleteCompletion removes a completion by ID or prefix.
func (s *KVStore) DeleteCompletion(idOrPrefix string) error {
	key, err := s.resolveKey(CompletionPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// GetAllData retrieves all data for export.
func (s *KVStore) GetAllData() (*ExportData, error) {
	habits, err := s.ListHabits("")
	if err != nil {
		return nil, err
	}
	completions, err := s.ListCompletions("", nil, 0)
	if err != nil {
		return nil, err
	}
	return newExportData(habits, completions), nil
}

// ImportData imports habits, then completions.
func (s *KVStore) ImportData(data *ExportData) error {
	return importSequential(s, data)
}
