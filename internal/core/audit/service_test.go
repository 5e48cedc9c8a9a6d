package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// statementRecorder keeps the SQL of every statement gorm executes
type statementRecorder struct {
	logger.Interface
	statements []string
}

func (r *statementRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

// dryRunDB builds statements without a database connection
func dryRunDB(t *testing.T) (*gorm.DB, *statementRecorder) {
	t.Helper()
	rec := &statementRecorder{Interface: logger.Discard}
	db, err := gorm.Open(postgres.Open("host=localhost user=stockman dbname=stockman sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestService_LogAssignsID(t *testing.T) {
	db, rec := dryRunDB(t)
	s := NewService(db)

	entry := &ActivityLog{Module: "inventory", Action: "Ajout produit"}
	require.NoError(t, s.Log(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	require.Len(t, rec.statements, 1)
	assert.Contains(t, rec.statements[0], `INSERT INTO "activity_logs"`)
}

func TestService_ListCountsThenPages(t *testing.T) {
	db, rec := dryRunDB(t)
	s := NewService(db)

	res, err := s.List(context.Background(), ActivityFilter{Action: "Export inventory (pdf)", Page: 2, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 25, res.PageSize)

	require.Len(t, rec.statements, 2)
	count, page := rec.statements[0], rec.statements[1]

	assert.Contains(t, count, `SELECT count(*) FROM "activity_logs"`)
	assert.Contains(t, count, "action = 'Export inventory (pdf)'")
	assert.NotContains(t, count, "LIMIT")

	assert.Contains(t, page, `SELECT * FROM "activity_logs"`)
	assert.Contains(t, page, "action = 'Export inventory (pdf)'")
	assert.Contains(t, page, "ORDER BY created_at DESC LIMIT 25 OFFSET 25")
}

func TestService_FilteredQuery(t *testing.T) {
	db, _ := dryRunDB(t)
	s := NewService(db)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var logs []ActivityLog
		filter := normalize(ActivityFilter{Module: "export", StartDate: &start, Page: 3, PageSize: 10})
		return s.page(s.filtered(tx, filter), filter).Find(&logs)
	})

	assert.Contains(t, sql, `FROM "activity_logs"`)
	assert.Contains(t, sql, "module = 'export'")
	assert.Contains(t, sql, "created_at >=")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
	assert.NotContains(t, sql, "action =")
}

func TestNormalize(t *testing.T) {
	f := normalize(ActivityFilter{})
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)

	f = normalize(ActivityFilter{Page: 2, PageSize: 5000})
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 50))
	assert.Equal(t, 1, totalPages(50, 50))
	assert.Equal(t, 2, totalPages(51, 50))
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	require.NoError(t, r.Log(context.Background(), &ActivityLog{}))

	res, err := r.List(context.Background(), ActivityFilter{})
	require.NoError(t, err)
	assert.Empty(t, res.Records())
	assert.Equal(t, DefaultPageSize, res.PageSize)
}

func TestExportEvent(t *testing.T) {
	entry := ExportEvent("inventory", "pdf", "Stockman_Inventaire_2024-03-05.pdf", 2048, "Awa")

	assert.Equal(t, "export", entry.Module)
	assert.Equal(t, "Export inventory (pdf)", entry.Action)
	assert.Equal(t, "Awa", entry.UserName)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Metadata, &meta))
	assert.Equal(t, "pdf", meta["format"])
	assert.Equal(t, float64(2048), meta["size"])
}

func TestActivityLog_Record(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	res := &ActivityLogResponse{Logs: []ActivityLog{
		{Module: "crm", Action: "Nouveau client", UserName: "Awa", CreatedAt: at},
	}}

	records := res.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "crm", records[0]["module"])
	assert.Equal(t, at, records[0]["created_at"])
	assert.Equal(t, "Awa", records[0]["user_name"])
}
