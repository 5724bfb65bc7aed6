// Package files stores the named source documents of each user.
package files

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

const (
	DefaultTitle    = "Untitled"
	DefaultLanguage = "starlark"
)

type File struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft is a file to create. Empty fields take defaults.
type Draft struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// Patch updates the non-nil fields.
type Patch struct {
	Title    *string `json:"title"`
	Language *string `json:"language"`
	Content  *string `json:"content"`
}

// Store is owner scoped: a file of another owner is reported as ErrNotFound.
type Store interface {
	Create(ctx context.Context, owner string, draft Draft) (File, error)
	// List returns the owner's files, most recently updated first.
	List(ctx context.Context, owner string) ([]File, error)
	Get(ctx context.Context, owner string, id string) (File, error)
	Update(ctx context.Context, owner string, id string, patch Patch) (File, error)
	Delete(ctx context.Context, owner string, id string) error
}
