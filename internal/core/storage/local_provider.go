package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalProvider stores exports on the local filesystem
type LocalProvider struct {
	basePath string
}

// NewLocalProvider creates the base directory if needed
func NewLocalProvider(basePath string) (*LocalProvider, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &LocalProvider{basePath: basePath}, nil
}

func (p *LocalProvider) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(p.basePath, key), nil
}

// Save writes data to a temporary file first so readers never see a
// partially written export.
func (p *LocalProvider) Save(ctx context.Context, key string, data []byte, contentType string) (*Object, error) {
	path, err := p.path(key)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(p.basePath, ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	return &Object{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
		StoredAt:    time.Now(),
	}, nil
}

// Open opens the stored file
func (p *LocalProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := p.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete deletes a file from local filesystem
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ListBefore lists the download files last modified before cutoff. Files
// not named like a download are never listed.
func (p *LocalProvider) ListBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(p.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list export directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDownloadKey(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			keys = append(keys, entry.Name())
		}
	}
	return keys, nil
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}
