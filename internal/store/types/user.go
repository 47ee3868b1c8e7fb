package types

import "time"

// User is an account holder. Usernames are unique, matched
// case-sensitively with no normalization.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserUpdate carries the writable fields of a user; nil fields are
// left unchanged.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"fullName,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// Pet is a profile owned by a user. The (owner username, slug) pair is
// the public lookup key.
type Pet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Species   string    `json:"species,omitempty"`
	Breed     string    `json:"breed,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PetUpdate carries the writable fields of a pet.
type PetUpdate struct {
	Name    *string `json:"name,omitempty"`
	Slug    *string `json:"slug,omitempty"`
	Species *string `json:"species,omitempty"`
	Breed   *string `json:"breed,omitempty"`
	Bio     *string `json:"bio,omitempty"`
}
