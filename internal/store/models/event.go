package models

import (
	"context"
	"sort"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// EventModel handles storage operations for group events and RSVPs.
// Attendance is recomputed from the RSVP set on every change because a
// re-RSVP replaces the previous response.
type EventModel struct {
	db     *DB
	logger *zap.Logger
}

// NewEvent creates a new EventModel instance.
func NewEvent(db *DB, logger *zap.Logger) *EventModel {
	return &EventModel{
		db:     db,
		logger: logger.Named("store_event"),
	}
}

// List returns every event ordered by start date.
func (m *EventModel) List(ctx context.Context) ([]*types.GroupEvent, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	events, err := load[*types.GroupEvent](ctx, m.db, groupEventsKey)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})

	return events, nil
}

// ListByGroup returns a group's events ordered by start date.
func (m *EventModel) ListByGroup(ctx context.Context, groupID string) ([]*types.GroupEvent, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	events, err := load[*types.GroupEvent](ctx, m.db, groupEventsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupEvent
	for _, event := range events {
		if event.GroupID == groupID {
			matched = append(matched, event)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartDate.Before(matched[j].StartDate)
	})

	return matched, nil
}

// GetByID returns the event with the given ID.
func (m *EventModel) GetByID(ctx context.Context, id string) (*types.GroupEvent, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	events, err := load[*types.GroupEvent](ctx, m.db, groupEventsKey)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		if event.ID == id {
			return event, nil
		}
	}

	return nil, types.ErrNotFound
}

// Add inserts an event.
func (m *EventModel) Add(ctx context.Context, event *types.GroupEvent) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	events, err := load[*types.GroupEvent](ctx, m.db, groupEventsKey)
	if err != nil {
		return err
	}

	for _, existing := range events {
		if existing.ID == event.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, groupEventsKey, append(events, event)); err != nil {
		return err
	}

	if err := recomputeAttendance(ctx, m.db, event.ID); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// Update applies a partial update and stamps UpdatedAt. The attendee
// tally is untouched; only RSVP changes can move it.
func (m *EventModel) Update(ctx context.Context, id string, update types.GroupEventUpdate) (*types.GroupEvent, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	events, err := load[*types.GroupEvent](ctx, m.db, groupEventsKey)
	if err != nil {
		return nil, err
	}

	var updated *types.GroupEvent

	for _, event := range events {
		if event.ID != id {
			continue
		}

		if update.Title != nil {
			event.Title = *update.Title
		}
		if update.Description != nil {
			event.Description = *update.Description
		}
		if update.Location != nil {
			event.Location = *update.Location
		}
		if update.StartDate != nil {
			event.StartDate = *update.StartDate
		}
		if update.EndDate != nil {
			event.EndDate = update.EndDate
		}
		event.UpdatedAt = time.Now()
		updated = event

		break
	}

	if updated == nil {
		return nil, types.ErrNotFound
	}

	if err := save(ctx, m.db, groupEventsKey, events); err != nil {
		return nil, err
	}

	m.db.invalidate()

	return updated, nil
}

// Remove deletes an event together with its RSVPs.
func (m *EventModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	events, err := load[*types.GroupEvent](ctx, m.db, groupEventsKey)
	if err != nil {
		return err
	}

	remaining := events[:0]
	for _, event := range events {
		if event.ID != id {
			remaining = append(remaining, event)
		}
	}

	if len(remaining) == len(events) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, groupEventsKey, remaining); err != nil {
		return err
	}

	rsvps, err := load[*types.EventRSVP](ctx, m.db, eventRSVPsKey)
	if err != nil {
		return err
	}

	kept := rsvps[:0]
	for _, rsvp := range rsvps {
		if rsvp.EventID != id {
			kept = append(kept, rsvp)
		}
	}

	if err := save(ctx, m.db, eventRSVPsKey, kept); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// RSVPsByEvent returns all responses to an event.
func (m *EventModel) RSVPsByEvent(ctx context.Context, eventID string) ([]*types.EventRSVP, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	rsvps, err := load[*types.EventRSVP](ctx, m.db, eventRSVPsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.EventRSVP
	for _, rsvp := range rsvps {
		if rsvp.EventID == eventID {
			matched = append(matched, rsvp)
		}
	}

	return matched, nil
}

// UserRSVP returns a user's current response to an event.
func (m *EventModel) UserRSVP(ctx context.Context, eventID, userID string) (*types.EventRSVP, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	rsvps, err := load[*types.EventRSVP](ctx, m.db, eventRSVPsKey)
	if err != nil {
		return nil, err
	}

	for _, rsvp := range rsvps {
		if rsvp.EventID == eventID && rsvp.UserID == userID {
			return rsvp, nil
		}
	}

	return nil, types.ErrNotFound
}

// SetRSVP records a response, replacing any earlier response by the
// same user, then recomputes attendance. The event must exist.
func (m *EventModel) SetRSVP(ctx context.Context, rsvp *types.EventRSVP) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	events, err := load[*types.GroupEvent](ctx, m.db, groupEventsKey)
	if err != nil {
		return err
	}

	found := false

	for _, event := range events {
		if event.ID == rsvp.EventID {
			found = true
			break
		}
	}

	if !found {
		return types.ErrNotFound
	}

	rsvps, err := load[*types.EventRSVP](ctx, m.db, eventRSVPsKey)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range rsvps {
		if existing.EventID == rsvp.EventID && existing.UserID == rsvp.UserID {
			rsvps[i] = rsvp
			replaced = true

			break
		}
	}

	if !replaced {
		rsvps = append(rsvps, rsvp)
	}

	if err := save(ctx, m.db, eventRSVPsKey, rsvps); err != nil {
		return err
	}

	if err := recomputeAttendance(ctx, m.db, rsvp.EventID); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// RemoveRSVP deletes a user's response and recomputes attendance.
func (m *EventModel) RemoveRSVP(ctx context.Context, eventID, userID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	rsvps, err := load[*types.EventRSVP](ctx, m.db, eventRSVPsKey)
	if err != nil {
		return err
	}

	remaining := rsvps[:0]
	for _, rsvp := range rsvps {
		if rsvp.EventID == eventID && rsvp.UserID == userID {
			continue
		}
		remaining = append(remaining, rsvp)
	}

	if len(remaining) == len(rsvps) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, eventRSVPsKey, remaining); err != nil {
		return err
	}

	if err := recomputeAttendance(ctx, m.db, eventID); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// recomputeAttendance rebuilds an event's attendee count from RSVPs
// with status going. Caller must hold the write lock.
func recomputeAttendance(ctx context.Context, db *DB, eventID string) error {
	events, err := load[*types.GroupEvent](ctx, db, groupEventsKey)
	if err != nil {
		return err
	}

	var event *types.GroupEvent

	for _, candidate := range events {
		if candidate.ID == eventID {
			event = candidate
			break
		}
	}

	if event == nil {
		return nil
	}

	rsvps, err := load[*types.EventRSVP](ctx, db, eventRSVPsKey)
	if err != nil {
		return err
	}

	count := 0

	for _, rsvp := range rsvps {
		if rsvp.EventID == eventID && rsvp.Status == types.RSVPGoing {
			count++
		}
	}

	event.AttendeeCount = count
	event.UpdatedAt = time.Now()

	return save(ctx, db, groupEventsKey, events)
}
