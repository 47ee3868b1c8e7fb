package types

import "time"

// Post is a top-level feed entry authored by a user.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	PetID     string    `json:"petId,omitempty"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostUpdate carries the writable fields of a post. Edits are gated on
// authorship by the repository.
type PostUpdate struct {
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentUpdate carries the writable fields of a comment.
type CommentUpdate struct {
	Content *string `json:"content,omitempty"`
}
