package models

import (
	"context"
	"sort"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// TopicModel handles storage operations for group topics.
type TopicModel struct {
	db     *DB
	logger *zap.Logger
}

// NewTopic creates a new TopicModel instance.
func NewTopic(db *DB, logger *zap.Logger) *TopicModel {
	return &TopicModel{
		db:     db,
		logger: logger.Named("store_topic"),
	}
}

// ListByGroup returns a group's topics, newest first.
func (m *TopicModel) ListByGroup(ctx context.Context, groupID string) ([]*types.GroupTopic, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	topics, err := load[*types.GroupTopic](ctx, m.db, groupTopicsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupTopic
	for _, topic := range topics {
		if topic.GroupID == groupID {
			matched = append(matched, topic)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, nil
}

// ListByParent returns the replies to a topic, oldest first.
func (m *TopicModel) ListByParent(ctx context.Context, parentTopicID string) ([]*types.GroupTopic, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	topics, err := load[*types.GroupTopic](ctx, m.db, groupTopicsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupTopic
	for _, topic := range topics {
		if topic.ParentTopicID == parentTopicID {
			matched = append(matched, topic)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return matched, nil
}

// GetByID returns the topic with the given ID.
func (m *TopicModel) GetByID(ctx context.Context, id string) (*types.GroupTopic, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	topics, err := load[*types.GroupTopic](ctx, m.db, groupTopicsKey)
	if err != nil {
		return nil, err
	}

	for _, topic := range topics {
		if topic.ID == id {
			return topic, nil
		}
	}

	return nil, types.ErrNotFound
}

// Add inserts a topic and increments the group's topic counter as one
// unit.
func (m *TopicModel) Add(ctx context.Context, topic *types.GroupTopic) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	topics, err := load[*types.GroupTopic](ctx, m.db, groupTopicsKey)
	if err != nil {
		return err
	}

	for _, existing := range topics {
		if existing.ID == topic.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, groupTopicsKey, append(topics, topic)); err != nil {
		return err
	}

	if err := adjustGroupCounters(ctx, m.db, topic.GroupID, 0, 1); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// Update applies a partial update and stamps UpdatedAt. Only the
// topic's author may edit it.
func (m *TopicModel) Update(ctx context.Context, id, actorID string, update types.GroupTopicUpdate) (*types.GroupTopic, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	topics, err := load[*types.GroupTopic](ctx, m.db, groupTopicsKey)
	if err != nil {
		return nil, err
	}

	for _, topic := range topics {
		if topic.ID != id {
			continue
		}

		if topic.AuthorID != actorID {
			return nil, types.ErrForbidden
		}

		if update.Title != nil {
			topic.Title = *update.Title
		}
		if update.Body != nil {
			topic.Body = *update.Body
		}
		topic.UpdatedAt = time.Now()

		if err := save(ctx, m.db, groupTopicsKey, topics); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return topic, nil
	}

	return nil, types.ErrNotFound
}

// Remove deletes a topic together with its one level of replies and
// decrements the group's topic counter by the number of removed rows.
func (m *TopicModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	topics, err := load[*types.GroupTopic](ctx, m.db, groupTopicsKey)
	if err != nil {
		return err
	}

	var (
		groupID string
		found   bool
	)

	for _, topic := range topics {
		if topic.ID == id {
			groupID = topic.GroupID
			found = true

			break
		}
	}

	if !found {
		return types.ErrNotFound
	}

	remaining := topics[:0]
	for _, topic := range topics {
		if topic.ID == id || topic.ParentTopicID == id {
			continue
		}
		remaining = append(remaining, topic)
	}

	removed := len(topics) - len(remaining)

	if err := save(ctx, m.db, groupTopicsKey, remaining); err != nil {
		return err
	}

	if err := adjustGroupCounters(ctx, m.db, groupID, 0, -removed); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Removed topic",
		zap.String("topicID", id),
		zap.Int("rowsRemoved", removed))

	return nil
}
