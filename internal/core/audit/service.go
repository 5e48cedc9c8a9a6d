package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/utils"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

// Recorder writes and reads the activity journal
type Recorder interface {
	Log(ctx context.Context, entry *ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) (*ActivityLogResponse, error)
}

// Service is the gorm-backed Recorder
type Service struct {
	db *gorm.DB
}

// NewService creates a new activity service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Log creates a new activity entry
func (s *Service) Log(ctx context.Context, entry *ActivityLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

// List retrieves activity logs, newest first
func (s *Service) List(ctx context.Context, filter ActivityFilter) (*ActivityLogResponse, error) {
	filter = normalize(filter)
	db := s.db.WithContext(ctx)

	var totalCount int64
	if err := s.filtered(db, filter).Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count activity logs: %w", err)
	}

	var logs []ActivityLog
	if err := s.page(s.filtered(db, filter), filter).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get activity logs: %w", err)
	}

	return &ActivityLogResponse{
		Logs:       logs,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(totalCount, filter.PageSize),
	}, nil
}

func (s *Service) filtered(db *gorm.DB, filter ActivityFilter) *gorm.DB {
	query := db.Model(&ActivityLog{})
	if filter.Module != "" {
		query = query.Where("module = ?", filter.Module)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	return query
}

func (s *Service) page(query *gorm.DB, filter ActivityFilter) *gorm.DB {
	return query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize)
}

func normalize(filter ActivityFilter) ActivityFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	return filter
}

func totalPages(count int64, pageSize int) int {
	pages := int(count) / pageSize
	if int(count)%pageSize > 0 {
		pages++
	}
	return pages
}

// NopRecorder is used when no database is configured
type NopRecorder struct{}

func (NopRecorder) Log(ctx context.Context, entry *ActivityLog) error {
	return nil
}

func (NopRecorder) List(ctx context.Context, filter ActivityFilter) (*ActivityLogResponse, error) {
	filter = normalize(filter)
	return &ActivityLogResponse{Logs: []ActivityLog{}, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// ExportEvent builds the entry recorded after a successful export
func ExportEvent(report, format, fileName string, size int64, userName string) *ActivityLog {
	metadata, err := toJSON(map[string]interface{}{
		"report": report,
		"format": format,
		"file":   fileName,
		"size":   size,
	})
	if err != nil {
		utils.LogWarn("Failed to serialize export metadata", map[string]interface{}{"error": err.Error()})
	}

	return &ActivityLog{
		Module:      "export",
		Action:      fmt.Sprintf("Export %s (%s)", report, format),
		UserName:    userName,
		Description: fileName,
		Metadata:    metadata,
	}
}

// Helper function to convert value to JSON
func toJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(bytes), nil
}
