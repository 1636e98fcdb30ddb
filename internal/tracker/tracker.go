// ABOUTME: Tracker service that loads a user's habit snapshot and ranks streaks.
// ABOUTME: Reuses a ranking only while the snapshot fingerprint and change hub agree nothing moved.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/notify"
	"github.com/harperreed/habits/internal/observability"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/streak"
)

// Snapshot is every habit and completion owned by one user at a point in time.
type Snapshot struct {
	Habits      []*models.Habit
	Completions []*models.Completion
}

// DayStatus reports whether a habit was completed on the current calendar day.
type DayStatus struct {
	Habit       *models.Habit
	Completions []*models.Completion
}

// Done reports whether at least one completion was logged today.
func (d DayStatus) Done() bool {
	return len(d.Completions) > 0
}

// Service answers streak queries for one user.
type Service struct {
	repo   storage.Repository
	calc   *streak.Calculator
	userID string
	now    func() time.Time

	unsubscribe func()

	mu       sync.Mutex
	gen      uint64
	cached   *ranking
	cacheGen uint64
}

// ranking is one full computation: the entries and the joined per-habit error.
type ranking struct {
	entries []streak.Entry
	err     error
	sum     uint64
}

// New creates a Service. When hub is nil the cached ranking is only dropped
// when the stored data changes.
func New(repo storage.Repository, hub *notify.Hub, calc *streak.Calculator, userID string) *Service {
	s := &Service{
		repo:   repo,
		calc:   calc,
		userID: userID,
		now:    time.Now,
	}
	if hub != nil {
		s.unsubscribe = hub.Subscribe(func(e notify.Event) {
			logger.Debug("invalidating streak cache", "entity", e.Entity, "op", e.Op, "id", e.EntityID)
			s.invalidate()
		})
	}
	return s
}

// Calculator returns the engine used for all computations.
func (s *Service) Calculator() *streak.Calculator {
	return s.calc
}

// UserID returns the user the service is scoped to.
func (s *Service) UserID() string {
	return s.userID
}

// Close detaches the service from the change hub.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

// Snapshot loads the user's habits and completions.
func (s *Service) Snapshot() (*Snapshot, error) {
	habits, err := s.repo.ListHabits(s.userID)
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	completions, err := s.repo.ListCompletions(s.userID, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	return &Snapshot{Habits: habits, Completions: completions}, nil
}

// Ranked returns every habit ranked by best streak. The returned error joins
// the per-habit failures; entries are still usable when it is non-nil.
//
// Every call reads a fresh snapshot, so writes from other processes sharing
// the store are always seen. The ranking itself is reused only while the
// snapshot fingerprint is unchanged and no hub event has arrived.
func (s *Service) Ranked() ([]streak.Entry, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	sum := fingerprint(snap)

	s.mu.Lock()
	if r := s.cached; r != nil && s.cacheGen == s.gen && r.sum == sum {
		s.mu.Unlock()
		return append([]streak.Entry(nil), r.entries...), r.err
	}
	gen := s.gen
	s.mu.Unlock()

	r := s.compute(snap)
	r.sum = sum

	s.mu.Lock()
	// A notified write that landed mid-computation leaves the result stale.
	if s.gen == gen {
		s.cached, s.cacheGen = r, gen
	}
	s.mu.Unlock()

	return append([]streak.Entry(nil), r.entries...), r.err
}

// fingerprint hashes every field of the snapshot that a ranking exposes.
func fingerprint(snap *Snapshot) uint64 {
	d := xxhash.New()
	for _, h := range snap.Habits {
		_, _ = fmt.Fprintf(d, "h|%s|%s|%s|%s|%d\n",
			h.ID, h.Title, h.Description, h.Frequency, h.CreatedAt.UnixNano())
	}
	for _, c := range snap.Completions {
		_, _ = fmt.Fprintf(d, "c|%s|%s|%d\n", c.ID, c.HabitID, c.CompletedAt.UnixNano())
	}
	return d.Sum64()
}

func (s *Service) compute(snap *Snapshot) *ranking {
	start := time.Now()

	orphans := streak.Orphans(snap.Habits, snap.Completions)
	for _, c := range orphans {
		logger.Warn("ignoring orphaned completion", "completion", c.ID,
			"err", fmt.Errorf("%w: %s", streak.ErrUnknownHabitReference, c.HabitID))
	}

	entries, rankErr := s.calc.Rank(snap.Habits, snap.Completions)
	for _, e := range entries {
		if e.Err != nil {
			logger.Error("streak computation failed", "habit", e.Habit.ID, "err", e.Err)
		}
	}

	elapsed := time.Since(start)
	observability.RecordRanking(entries, len(orphans), elapsed)
	logger.Debug("ranked habits", "user", s.userID, "habits", len(entries), "elapsed", elapsed)

	return &ranking{entries: entries, err: rankErr}
}

// Top returns at most the first three ranked entries.
func (s *Service) Top() ([]streak.Entry, error) {
	entries, err := s.Ranked()
	return streak.TopStreaks(entries), err
}

// Habit looks up one of the user's habits by ID or prefix. Habits owned by
// other users are reported as not found.
func (s *Service) Habit(idOrPrefix string) (*models.Habit, error) {
	h, err := s.repo.GetHabit(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if h.UserID != s.userID {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	return h, nil
}

// Completion looks up one of the user's completions by ID or prefix.
func (s *Service) Completion(idOrPrefix string) (*models.Completion, error) {
	c, err := s.repo.GetCompletion(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if c.UserID != s.userID {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	return c, nil
}

// HabitStreak computes the streak of a single habit. When the habit exists
// but its streak cannot be computed, the entry carries the same Err that
// Ranked would report and the error is returned as well.
func (s *Service) HabitStreak(idOrPrefix string) (streak.Entry, error) {
	h, err := s.Habit(idOrPrefix)
	if err != nil {
		return streak.Entry{}, err
	}

	completions, err := s.repo.ListCompletions("", &h.ID, 0)
	if err != nil {
		return streak.Entry{}, fmt.Errorf("load completions: %w", err)
	}

	res, err := s.calc.Compute(completions)
	if err != nil {
		e := streak.Entry{Habit: h, Err: fmt.Errorf("habit %s: %w", h.ID, err)}
		return e, e.Err
	}
	return streak.Entry{Habit: h, Result: res}, nil
}

// Today lists each habit with the completions logged on the current
// calendar day of the reference zone.
func (s *Service) Today() ([]DayStatus, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	today := s.calc.Day(s.now())
	byHabit := streak.Partition(snap.Completions)

	statuses := make([]DayStatus, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		st := DayStatus{Habit: h}
		for _, c := range byHabit[h.ID] {
			if !c.CompletedAt.IsZero() && s.calc.Day(c.CompletedAt).Equal(today) {
				st.Completions = append(st.Completions, c)
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
