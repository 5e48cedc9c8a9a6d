package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

// ActivityLog represents one entry of the activity journal
type ActivityLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	Module      string `json:"module" gorm:"type:text;not null;index"` // inventory, crm, export, ...
	Action      string `json:"action" gorm:"type:text;not null;index"`
	UserName    string `json:"user_name,omitempty" gorm:"type:text"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// BeforeCreate assigns an id when none was set
func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Record converts the entry to the shape the activity report reads
func (l ActivityLog) Record() export.Record {
	return export.Record{
		"id":          l.ID.String(),
		"created_at":  l.CreatedAt,
		"module":      l.Module,
		"action":      l.Action,
		"user_name":   l.UserName,
		"description": l.Description,
	}
}

// ActivityFilter represents filters for querying activity logs
type ActivityFilter struct {
	Module    string
	Action    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// ActivityLogResponse represents a paginated activity log response
type ActivityLogResponse struct {
	Logs       []ActivityLog `json:"logs"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// Records converts the page for export, keeping the newest-first order
func (r *ActivityLogResponse) Records() []export.Record {
	records := make([]export.Record, 0, len(r.Logs))
	for _, l := range r.Logs {
		records = append(records, l.Record())
	}
	return records
}
