package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// DefaultFilename is used when a job carries no base filename
const DefaultFilename = "Stockman_Export"

// Service dispatches export jobs to the spreadsheet or PDF backend
type Service struct {
	pdfExporter   Exporter
	excelExporter Exporter
	now           func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used for timestamps and filenames
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new export service
func NewService(opts ...Option) *Service {
	s := &Service{
		pdfExporter:   NewPDFExporter(),
		excelExporter: NewExcelExporter(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseFormat maps a user supplied format name onto an ExportFormat
func ParseFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Now returns the service clock reading
func (s *Service) Now() time.Time {
	return s.now()
}

// Export renders the job fully in memory. A failed render never yields a
// partial file.
func (s *Service) Export(job *Job, format ExportFormat) (*File, error) {
	exporter, err := s.exporter(format)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var buf bytes.Buffer
	if err := exporter.Export(job, now, &buf); err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	return &File{
		Name:        FileName(job.baseFilename(), now, exporter.GetFileExtension()),
		ContentType: exporter.GetContentType(),
		Size:        int64(buf.Len()),
		Data:        buf.Bytes(),
	}, nil
}

// ExportToWriter streams the rendered job to writer and returns the file name
func (s *Service) ExportToWriter(job *Job, format ExportFormat, writer io.Writer) (string, error) {
	file, err := s.Export(job, format)
	if err != nil {
		return "", err
	}
	if _, err := writer.Write(file.Data); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return file.Name, nil
}

// GetContentType returns the content type for the given format
func (s *Service) GetContentType(format ExportFormat) string {
	exporter, err := s.exporter(format)
	if err != nil {
		return "application/octet-stream"
	}
	return exporter.GetContentType()
}

// GetFileExtension returns the file extension for the given format
func (s *Service) GetFileExtension(format ExportFormat) string {
	exporter, err := s.exporter(format)
	if err != nil {
		return ".bin"
	}
	return exporter.GetFileExtension()
}

func (s *Service) exporter(format ExportFormat) (Exporter, error) {
	switch format {
	case FormatPDF:
		return s.pdfExporter, nil
	case FormatExcel:
		return s.excelExporter, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// FileName builds "<base>_<YYYY-MM-DD><ext>"
func FileName(base string, now time.Time, ext string) string {
	if strings.TrimSpace(base) == "" {
		base = DefaultFilename
	}
	return fmt.Sprintf("%s_%s%s", base, FormatISODate(now), ext)
}

func (j *Job) baseFilename() string {
	if j == nil {
		return ""
	}
	if j.Workbook != nil && j.Workbook.Filename != "" {
		return j.Workbook.Filename
	}
	if j.Document != nil {
		return j.Document.Filename
	}
	return ""
}
