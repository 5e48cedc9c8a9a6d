package export

import (
	"io"
	"time"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatExcel ExportFormat = "excel"
	FormatPDF   ExportFormat = "pdf"
)

// Exporter is the interface for all export backends
type Exporter interface {
	Export(job *Job, now time.Time, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// ColumnType governs how a raw value is coerced when no formatter is set
type ColumnType string

const (
	TypeText     ColumnType = "text"
	TypeNumber   ColumnType = "number"
	TypeCurrency ColumnType = "currency"
	TypeDate     ColumnType = "date"
	TypePercent  ColumnType = "percent"
)

// Record is one plain source object, usually a decoded JSON object.
type Record map[string]interface{}

// Formatter overrides the default coercion of a column. The result is used
// verbatim and should be a string or a number.
type Formatter func(raw interface{}, rec Record) interface{}

// Column describes one logical field to export
type Column struct {
	Key    string
	Label  string
	Width  float64 // spreadsheet width in characters, DefaultColumnWidth when zero
	Type   ColumnType
	Format Formatter
}

// SummaryRow is a (label, value) pair appended after the data rows of a sheet
type SummaryRow struct {
	Label string
	Value interface{}
}

// KPICard is a small summary tile drawn before a document table
type KPICard struct {
	Label string
	Value string
}

// Sheet is one named tab of a workbook
type Sheet struct {
	Name    string
	Columns []Column
	Rows    []Record
	Summary []SummaryRow
}

// Workbook is the spreadsheet rendering of an export job
type Workbook struct {
	Title     string
	Period    string
	StoreName string
	Filename  string
	Sheets    []Sheet
}

// Section is one titled block of a document
type Section struct {
	Title   string
	Columns []Column
	Rows    []Record
	KPIs    []KPICard
}

// Document is the PDF rendering of an export job
type Document struct {
	Title     string
	Subtitle  string
	Period    string
	StoreName string
	Filename  string
	Sections  []Section
}

// Job carries both renderings of the same report so the caller can pick a
// format after the records have been mapped.
type Job struct {
	Workbook *Workbook
	Document *Document
}

// File is a rendered export ready to be handed to the user
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}
