package models

import (
	"context"
	"sort"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// PostModel handles storage operations for feed posts and their
// comments. Edits and deletions are gated on authorship.
type PostModel struct {
	db     *DB
	logger *zap.Logger
}

// NewPost creates a new PostModel instance.
func NewPost(db *DB, logger *zap.Logger) *PostModel {
	return &PostModel{
		db:     db,
		logger: logger.Named("store_post"),
	}
}

// List returns every post, newest first.
func (m *PostModel) List(ctx context.Context) ([]*types.Post, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	posts, err := load[*types.Post](ctx, m.db, postsKey)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

// ListByAuthor returns a user's posts, newest first.
func (m *PostModel) ListByAuthor(ctx context.Context, authorID string) ([]*types.Post, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	posts, err := load[*types.Post](ctx, m.db, postsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.Post
	for _, post := range posts {
		if post.AuthorID == authorID {
			matched = append(matched, post)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, nil
}

// GetByID returns the post with the given ID.
func (m *PostModel) GetByID(ctx context.Context, id string) (*types.Post, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	posts, err := load[*types.Post](ctx, m.db, postsKey)
	if err != nil {
		return nil, err
	}

	for _, post := range posts {
		if post.ID == id {
			return post, nil
		}
	}

	return nil, types.ErrNotFound
}

// Add inserts a post.
func (m *PostModel) Add(ctx context.Context, post *types.Post) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	posts, err := load[*types.Post](ctx, m.db, postsKey)
	if err != nil {
		return err
	}

	for _, existing := range posts {
		if existing.ID == post.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, postsKey, append(posts, post)); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// Update applies a partial update and stamps UpdatedAt. Only the
// author may edit a post.
func (m *PostModel) Update(ctx context.Context, id, actorID string, update types.PostUpdate) (*types.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	posts, err := load[*types.Post](ctx, m.db, postsKey)
	if err != nil {
		return nil, err
	}

	for _, post := range posts {
		if post.ID != id {
			continue
		}

		if post.AuthorID != actorID {
			return nil, types.ErrForbidden
		}

		if update.Content != nil {
			post.Content = *update.Content
		}
		if update.Tags != nil {
			post.Tags = update.Tags
		}
		post.UpdatedAt = time.Now()

		if err := save(ctx, m.db, postsKey, posts); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return post, nil
	}

	return nil, types.ErrNotFound
}

// Remove deletes a post together with its comments. Only the author
// may delete a post.
func (m *PostModel) Remove(ctx context.Context, id, actorID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	posts, err := load[*types.Post](ctx, m.db, postsKey)
	if err != nil {
		return err
	}

	found := false

	for _, post := range posts {
		if post.ID == id {
			if post.AuthorID != actorID {
				return types.ErrForbidden
			}
			found = true

			break
		}
	}

	if !found {
		return types.ErrNotFound
	}

	remaining := posts[:0]
	for _, post := range posts {
		if post.ID != id {
			remaining = append(remaining, post)
		}
	}

	if err := save(ctx, m.db, postsKey, remaining); err != nil {
		return err
	}

	comments, err := load[*types.Comment](ctx, m.db, commentsKey)
	if err != nil {
		return err
	}

	kept := comments[:0]
	for _, comment := range comments {
		if comment.PostID != id {
			kept = append(kept, comment)
		}
	}

	if err := save(ctx, m.db, commentsKey, kept); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// CommentsByPost returns a post's comments, oldest first.
func (m *PostModel) CommentsByPost(ctx context.Context, postID string) ([]*types.Comment, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	comments, err := load[*types.Comment](ctx, m.db, commentsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.Comment
	for _, comment := range comments {
		if comment.PostID == postID {
			matched = append(matched, comment)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return matched, nil
}

// AddComment inserts a comment. The post must exist.
func (m *PostModel) AddComment(ctx context.Context, comment *types.Comment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	posts, err := load[*types.Post](ctx, m.db, postsKey)
	if err != nil {
		return err
	}

	found := false

	for _, post := range posts {
		if post.ID == comment.PostID {
			found = true
			break
		}
	}

	if !found {
		return types.ErrNotFound
	}

	comments, err := load[*types.Comment](ctx, m.db, commentsKey)
	if err != nil {
		return err
	}

	for _, existing := range comments {
		if existing.ID == comment.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, commentsKey, append(comments, comment)); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// UpdateComment applies a partial update and stamps UpdatedAt. Only
// the author may edit a comment.
func (m *PostModel) UpdateComment(ctx context.Context, id, actorID string, update types.CommentUpdate) (*types.Comment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	comments, err := load[*types.Comment](ctx, m.db, commentsKey)
	if err != nil {
		return nil, err
	}

	for _, comment := range comments {
		if comment.ID != id {
			continue
		}

		if comment.AuthorID != actorID {
			return nil, types.ErrForbidden
		}

		if update.Content != nil {
			comment.Content = *update.Content
		}
		comment.UpdatedAt = time.Now()

		if err := save(ctx, m.db, commentsKey, comments); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return comment, nil
	}

	return nil, types.ErrNotFound
}

// RemoveComment deletes a comment. Only the author may delete it.
func (m *PostModel) RemoveComment(ctx context.Context, id, actorID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	comments, err := load[*types.Comment](ctx, m.db, commentsKey)
	if err != nil {
		return err
	}

	found := false

	for _, comment := range comments {
		if comment.ID == id {
			if comment.AuthorID != actorID {
				return types.ErrForbidden
			}
			found = true

			break
		}
	}

	if !found {
		return types.ErrNotFound
	}

	remaining := comments[:0]
	for _, comment := range comments {
		if comment.ID != id {
			remaining = append(remaining, comment)
		}
	}

	if err := save(ctx, m.db, commentsKey, remaining); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}
