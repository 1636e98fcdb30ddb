// ABOUTME: Repository decorator that announces committed writes on a notify.Hub.
// ABOUTME: Also counts every write in the store change metrics.
package storage

import (
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/notify"
	"github.com/harperreed/habits/internal/observability"
)

type notifyingRepository struct {
	Repository
	hub *notify.Hub
}

// WithNotifications wraps repo so each successful write publishes an event on hub.
func WithNotifications(repo Repository, hub *notify.Hub) Repository {
	return &notifyingRepository{Repository: repo, hub: hub}
}

func (r *notifyingRepository) publish(entity notify.Entity, op notify.Op, id string) {
	observability.RecordStoreChange(string(entity), string(op))
	r.hub.Publish(notify.NewEvent(entity, op, id))
}

func (r *notifyingRepository) CreateHabit(h *models.Habit) error {
	if err := r.Repository.CreateHabit(h); err != nil {
		return err
	}
	r.publish(notify.EntityHabit, notify.OpCreate, h.ID.String())
	return nil
}

func (r *notifyingRepository) UpdateHabit(h *models.Habit) error {
	if err := r.Repository.UpdateHabit(h); err != nil {
		return err
	}
	r.publish(notify.EntityHabit, notify.OpUpdate, h.ID.String())
	return nil
}

func (r *notifyingRepository) DeleteHabit(idOrPrefix string) error {
	h, err := r.Repository.GetHabit(idOrPrefix)
	if err != nil {
		return err
	}
	if err := r.Repository.DeleteHabit(h.ID.String()); err != nil {
		return err
	}
	r.publish(notify.EntityHabit, notify.OpDelete, h.ID.String())
	return nil
}

func (r *notifyingRepository) CreateCompletion(c *models.Completion) error {
	if err := r.Repository.CreateCompletion(c); err != nil {
		return err
	}
	r.publish(notify.EntityCompletion, notify.OpCreate, c.ID.String())
	return nil
}

func (r *notifyingRepository) DeleteCompletion(idOrPrefix string) error {
	c, err := r.Repository.GetCompletion(idOrPrefix)
	if err != nil {
		return err
	}
	if err := r.Repository.DeleteCompletion(c.ID.String()); err != nil {
		return err
	}
	r.publish(notify.EntityCompletion, notify.OpDelete, c.ID.String())
	return nil
}

func (r *notifyingRepository) ImportData(data *ExportData) error {
	if err := r.Repository.ImportData(data); err != nil {
		return err
	}
	for _, h := range data.Habits {
		r.publish(notify.EntityHabit, notify.OpCreate, h.ID.String())
	}
	for _, c := range data.Completions {
		r.publish(notify.EntityCompletion, notify.OpCreate, c.ID.String())
	}
	return nil
}
