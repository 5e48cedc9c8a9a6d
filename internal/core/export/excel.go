package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLength is the tab name limit of the xlsx format
const MaxSheetNameLength = 31

var ErrNoWorkbook = errors.New("export job has no workbook")

// ExcelExporter implements spreadsheet export using excelize
type ExcelExporter struct {
	style SheetStyle
}

// SheetStyle defines the colours used in generated workbooks
type SheetStyle struct {
	FontFamily    string
	FontSize      float64
	BrandColor    string // Hex colour without '#'
	HeaderBgColor string
	HeaderColor   string
	MetaColor     string
}

// DefaultSheetStyle returns the Stockman workbook styling
func DefaultSheetStyle() SheetStyle {
	return SheetStyle{
		FontFamily:    "Calibri",
		FontSize:      10,
		BrandColor:    "3B82F6",
		HeaderBgColor: "3B82F6",
		HeaderColor:   "FFFFFF",
		MetaColor:     "64748B",
	}
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{style: DefaultSheetStyle()}
}

// Export renders every sheet of the job's workbook into a single xlsx file
func (e *ExcelExporter) Export(job *Job, now time.Time, writer io.Writer) error {
	if job == nil || job.Workbook == nil {
		return ErrNoWorkbook
	}
	wb := job.Workbook

	f := excelize.NewFile()
	defer f.Close()

	sheets := wb.Sheets
	if len(sheets) == 0 {
		sheets = []Sheet{{Name: wb.Title}}
	}
	names := UniqueSheetNames(sheets)

	styles, err := e.createStyles(f)
	if err != nil {
		return err
	}

	meta := SheetMeta{Title: wb.Title, Period: wb.Period}
	for i, sheet := range sheets {
		name := names[i]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		layout := BuildSheet(sheet, meta, now)
		if err := writeLayout(f, name, layout, styles); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   TitleBanner(wb.Title),
		Creator: Brand,
		Created: now.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// GetContentType returns the MIME type for Excel files
func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// GetFileExtension returns the file extension for Excel files
func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}

type sheetStyles struct {
	title, meta, header, summary int
}

func (e *ExcelExporter) createStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Family: e.style.FontFamily, Color: e.style.BrandColor},
	}); err != nil {
		return s, fmt.Errorf("failed to create title style: %w", err)
	}

	if s.meta, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 9, Family: e.style.FontFamily, Color: e.style.MetaColor},
	}); err != nil {
		return s, fmt.Errorf("failed to create metadata style: %w", err)
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: e.style.FontSize, Family: e.style.FontFamily, Color: e.style.HeaderColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{e.style.HeaderBgColor}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	if s.summary, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: e.style.FontSize, Family: e.style.FontFamily},
	}); err != nil {
		return s, fmt.Errorf("failed to create summary style: %w", err)
	}

	return s, nil
}

func writeLayout(f *excelize.File, sheet string, layout *SheetLayout, styles sheetStyles) error {
	for i, row := range layout.Rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, MetaRow+1, MetaRow+1, styles.meta); err != nil {
		return err
	}

	cols := len(layout.Widths)
	if cols > 0 {
		lastCol, err := excelize.ColumnNumberToName(cols)
		if err != nil {
			return err
		}
		headerRow := HeaderRow + 1
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), styles.header); err != nil {
			return err
		}
		for i, width := range layout.Widths {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet, name, name, width); err != nil {
				return err
			}
		}
		if layout.MergeTitle {
			if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
				return err
			}
		}
	}

	if layout.SummaryRow >= 0 {
		first := layout.SummaryRow + 1
		last := len(layout.Rows)
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", first), fmt.Sprintf("A%d", last), styles.summary); err != nil {
			return err
		}
	}

	topLeft := fmt.Sprintf("A%d", layout.FreezeRows+1)
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      layout.FreezeRows,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
		Selection: []excelize.Selection{
			{SQRef: topLeft, ActiveCell: topLeft, Pane: "bottomLeft"},
		},
	})
}

// SheetName makes name acceptable as a tab name: characters the format
// rejects become '_' and the result is cut to the first 31 characters.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(":\\/?*[]", r) {
			return '_'
		}
		return r
	}, name)
	name = truncateUTF16(name, MaxSheetNameLength)
	if strings.HasPrefix(name, "'") {
		name = "_" + name[1:]
	}
	if strings.HasSuffix(name, "'") {
		name = name[:len(name)-1] + "_"
	}
	return name
}

// UniqueSheetNames returns one tab name per sheet. Names that collide after
// truncation (tab names are case-insensitive) get a "~N" suffix so no sheet
// is lost.
func UniqueSheetNames(sheets []Sheet) []string {
	names := make([]string, len(sheets))
	used := make(map[string]bool, len(sheets))
	for i, sheet := range sheets {
		base := SheetName(sheet.Name)
		if strings.TrimSpace(base) == "" {
			base = fmt.Sprintf("Feuille %d", i+1)
		}
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf("~%d", n)
			name = truncateUTF16(base, MaxSheetNameLength-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

// truncateUTF16 keeps the longest prefix of s that fits in max UTF-16 code
// units, the unit the xlsx limit is expressed in.
func truncateUTF16(s string, max int) string {
	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > max {
			return s[:i]
		}
		units += n
	}
	return s
}
