package export

import (
	"strings"
	"time"
)

const (
	// Brand prefixes every title banner
	Brand = "STOCKMAN"

	// DefaultColumnWidth is used when a column has no width hint
	DefaultColumnWidth = 20.0

	// Fixed sheet layout, zero-based row indexes
	TitleRow     = 0
	MetaRow      = 1
	HeaderRow    = 3
	FirstDataRow = 4
)

// SheetMeta is the document-level metadata printed in the title block
type SheetMeta struct {
	Title  string
	Period string
}

// SheetLayout is the generic array-of-rows form of a sheet, before any
// spreadsheet library is involved.
type SheetLayout struct {
	Rows [][]interface{}

	// Widths holds one character width per column
	Widths []float64

	// FreezeRows is the number of rows kept visible above the scroll area
	FreezeRows int

	// MergeTitle is set when the title banner spans several columns
	MergeTitle bool

	// SummaryRow is the index of the first summary row, -1 without summary
	SummaryRow int
}

// TitleBanner returns "STOCKMAN — <TITLE>"
func TitleBanner(title string) string {
	return Brand + " — " + strings.ToUpper(title)
}

// BuildSheet lays a sheet out as title, metadata, blank, header, data rows
// and, when present, a blank separator followed by the summary rows.
func BuildSheet(sheet Sheet, meta SheetMeta, now time.Time) *SheetLayout {
	today := FormatDate(now)
	periodStr := "Généré le : " + today
	if meta.Period != "" {
		periodStr = "Période : " + meta.Period
	}

	header := make([]interface{}, len(sheet.Columns))
	widths := make([]float64, len(sheet.Columns))
	for i, col := range sheet.Columns {
		header[i] = col.Label
		widths[i] = col.Width
		if widths[i] <= 0 {
			widths[i] = DefaultColumnWidth
		}
	}

	rows := make([][]interface{}, 0, FirstDataRow+len(sheet.Rows)+len(sheet.Summary)+1)
	rows = append(rows,
		[]interface{}{TitleBanner(meta.Title)},
		[]interface{}{periodStr, "", "Exporté le : " + FormatDateTime(now)},
		[]interface{}{},
		header,
	)

	for _, rec := range sheet.Rows {
		row := make([]interface{}, len(sheet.Columns))
		for i, col := range sheet.Columns {
			row[i] = SheetValue(col, rec)
		}
		rows = append(rows, row)
	}

	layout := &SheetLayout{
		Widths:     widths,
		FreezeRows: FirstDataRow,
		MergeTitle: len(sheet.Columns) > 1,
		SummaryRow: -1,
	}

	if len(sheet.Summary) > 0 {
		rows = append(rows, []interface{}{})
		layout.SummaryRow = len(rows)
		for _, s := range sheet.Summary {
			rows = append(rows, []interface{}{s.Label, formatted(s.Value, SheetPlaceholder)})
		}
	}

	layout.Rows = rows
	return layout
}
