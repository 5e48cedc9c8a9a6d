package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("stored file not found")

// Object describes a stored export
type Object struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	StoredAt    time.Time `json:"stored_at"`
}

// Provider defines the interface for export storage backends
type Provider interface {
	// Save stores data under key
	Save(ctx context.Context, key string, data []byte, contentType string) (*Object, error)

	// Open returns the content stored under key, ErrNotFound when missing
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ListBefore returns the keys stored before cutoff
	ListBefore(ctx context.Context, cutoff time.Time) ([]string, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}
