package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/utils"
)

// Download is a rendered export waiting to be fetched
type Download struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ExpiresAt   time.Time `json:"expires_at"`

	key   string
	timer *time.Timer
}

// Downloads keeps rendered files in a Provider and releases each one after
// a fixed TTL, whether or not it was fetched.
type Downloads struct {
	provider Provider
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*Download
	closed  bool
}

// DownloadsOption configures a Downloads registry
type DownloadsOption func(*Downloads)

// WithDownloadsClock overrides the clock used for expiry timestamps
func WithDownloadsClock(now func() time.Time) DownloadsOption {
	return func(d *Downloads) {
		d.now = now
	}
}

// NewDownloads creates a registry backed by provider
func NewDownloads(provider Provider, ttl time.Duration, opts ...DownloadsOption) *Downloads {
	d := &Downloads{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]*Download),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TTL returns how long a download stays available
func (d *Downloads) TTL() time.Duration {
	return d.ttl
}

// Provider returns the backing storage provider
func (d *Downloads) Provider() Provider {
	return d.provider
}

// downloadKey names the stored content of a download
func downloadKey(id, name string) string {
	return id + filepath.Ext(name)
}

// IsDownloadKey reports whether key has the <uuid>[.ext] shape Put creates
func IsDownloadKey(key string) bool {
	id := strings.TrimSuffix(key, filepath.Ext(key))
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Put stores file and schedules its release
func (d *Downloads) Put(ctx context.Context, file *export.File) (*Download, error) {
	if file == nil {
		return nil, fmt.Errorf("nothing to store")
	}

	id := uuid.NewString()
	key := downloadKey(id, file.Name)

	if _, err := d.provider.Save(ctx, key, file.Data, file.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	entry := &Download{
		ID:          id,
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
		ExpiresAt:   d.now().Add(d.ttl),
		key:         key,
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.remove(key)
		return nil, fmt.Errorf("downloads registry is closed")
	}
	entry.timer = time.AfterFunc(d.ttl, func() { d.Release(id) })
	d.entries[id] = entry
	d.mu.Unlock()

	utils.LogInfo("Export stored for download", map[string]interface{}{
		"id":       id,
		"name":     file.Name,
		"provider": d.provider.GetProviderName(),
		"expires":  entry.ExpiresAt,
	})

	return entry, nil
}

// Get returns the metadata of a live download
func (d *Downloads) Get(id string) (*Download, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[id]
	if !ok {
		return nil, false
	}
	copied := *entry
	copied.timer = nil
	return &copied, true
}

// Open returns a live download and its content
func (d *Downloads) Open(ctx context.Context, id string) (*Download, io.ReadCloser, error) {
	entry, ok := d.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rc, err := d.provider.Open(ctx, entry.key)
	if err != nil {
		return nil, nil, err
	}
	return entry, rc, nil
}

// Release forgets id and deletes its stored content
func (d *Downloads) Release(id string) {
	d.mu.Lock()
	entry, ok := d.entries[id]
	if ok {
		delete(d.entries, id)
		entry.timer.Stop()
	}
	d.mu.Unlock()

	if ok {
		d.remove(entry.key)
	}
}

func (d *Downloads) remove(key string) {
	if err := d.provider.Delete(context.Background(), key); err != nil {
		utils.LogWarn("Failed to release export", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Len returns the number of live downloads
func (d *Downloads) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Sweep releases expired entries and deletes stored files older than the
// TTL that no live entry refers to. Returns the number of deleted files.
func (d *Downloads) Sweep(ctx context.Context) (int, error) {
	now := d.now()

	var expired []string
	live := make(map[string]bool)
	d.mu.Lock()
	for id, entry := range d.entries {
		if !now.Before(entry.ExpiresAt) {
			expired = append(expired, id)
			continue
		}
		live[entry.key] = true
	}
	d.mu.Unlock()

	for _, id := range expired {
		d.Release(id)
	}

	keys, err := d.provider.ListBefore(ctx, now.Add(-d.ttl))
	if err != nil {
		return len(expired), err
	}

	removed := len(expired)
	for _, key := range keys {
		if live[key] {
			continue
		}
		if err := d.provider.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close stops every pending timer and deletes the stored files
func (d *Downloads) Close() {
	d.mu.Lock()
	d.closed = true
	entries := d.entries
	d.entries = make(map[string]*Download)
	d.mu.Unlock()

	for _, entry := range entries {
		entry.timer.Stop()
		d.remove(entry.key)
	}
}
