package export

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Page geometry, in millimetres on portrait A4.
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	marginX          = 12.0
	headerBandHeight = 46.0
	contentStartY    = 55.0
	pageAdvanceY     = 240.0
	continuationY    = 15.0
	FooterTop        = 285.0
	footerHeight     = 12.0
	TableBottom      = FooterTop - 5

	sectionTitleStep = 13.0
	kpiCardHeight    = 22.0
	kpiRowStep       = 30.0
	kpiGap           = 4.0
	MaxKPIValueLen   = 20
	MaxKPIsPerRow    = 6
	tableGapAfter    = 14.0

	headCellPadding = 4.0
	bodyCellPadV    = 3.0
	bodyCellPadH    = 4.0

	ptToMM           = 25.4 / 72
	lineHeightFactor = 1.15

	// EmptyTableText fills the single placeholder row of an empty table
	EmptyTableText = "Aucune donnée"
	// FooterNotice is printed at the bottom left of every page
	FooterNotice = "STOCKMAN — Document confidentiel — Usage interne uniquement"
)

// Color is an RGB triple
type Color struct {
	R, G, B int
}

var (
	colorPrimary    = Color{59, 130, 246}
	colorDark       = Color{15, 23, 42}
	colorLight      = Color{248, 250, 252}
	colorGray       = Color{100, 116, 139}
	colorWhite      = Color{255, 255, 255}
	colorCardBorder = Color{210, 225, 245}
	colorStripe     = Color{242, 246, 253}
	colorRule       = Color{230, 235, 245}
)

// OpKind tells the painter which primitive an Op draws
type OpKind int

const (
	OpRect OpKind = iota
	OpRoundedRect
	OpLine
	OpText
)

// Font selects a core font style ("", "B", "I") and a size in points
type Font struct {
	Style string
	Size  float64
}

// Align anchors a text op horizontally on its X coordinate
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Op is one drawing instruction on a given page (1-based). Rect ops use
// X/Y/W/H, lines go from X/Y to X2/Y2 and text is drawn with its baseline
// at Y.
type Op struct {
	Page int
	Kind OpKind

	X, Y, W, H float64
	X2, Y2     float64
	Radius     float64

	Fill      Color
	Stroke    Color
	Style     string // "F", "D" or "FD"
	LineWidth float64

	Text  string
	Font  Font
	Color Color
	Align Align
}

// Cursor is the vertical position on the current page
type Cursor struct {
	Y    float64
	Page int
}

func (c Cursor) nextPage() Cursor {
	return Cursor{Y: continuationY, Page: c.Page + 1}
}

// Measurer reports the rendered width of a text in millimetres
type Measurer interface {
	TextWidth(text string, font Font) float64
}

// DocumentLayout is the full list of drawing instructions of a document
type DocumentLayout struct {
	Ops   []Op
	Pages int
}

// LayoutDocument lays out the header band, every section and the footers.
// It is pure: the same document, clock and measurer give the same ops.
func LayoutDocument(doc *Document, now time.Time, m Measurer) DocumentLayout {
	ops, cur := layoutHeader(doc, now)

	for idx, section := range doc.Sections {
		// keep section chrome from starting at the very bottom of a page
		if cur.Y > pageAdvanceY && idx > 0 {
			cur = cur.nextPage()
		}

		var sectionOps []Op
		if section.Title != "" {
			sectionOps, cur = layoutSectionTitle(cur, section.Title)
			ops = append(ops, sectionOps...)
		}
		if len(section.KPIs) > 0 {
			sectionOps, cur = layoutKPIs(cur, section.KPIs)
			ops = append(ops, sectionOps...)
		}
		if len(section.Columns) > 0 {
			sectionOps, cur = layoutTable(cur, section, m)
			ops = append(ops, sectionOps...)
		}
	}

	ops = append(ops, layoutFooters(cur.Page)...)
	return DocumentLayout{Ops: ops, Pages: cur.Page}
}

// HeaderMeta joins store, period and generation time with dividers
func HeaderMeta(doc *Document, now time.Time) string {
	var parts []string
	if doc.StoreName != "" {
		parts = append(parts, "Magasin : "+doc.StoreName)
	}
	if doc.Period != "" {
		parts = append(parts, "Période : "+doc.Period)
	}
	parts = append(parts, "Généré le "+FormatDateTime(now))
	return strings.Join(parts, "    |    ")
}

func layoutHeader(doc *Document, now time.Time) ([]Op, Cursor) {
	const page = 1
	ops := []Op{
		{Page: page, Kind: OpRect, X: 0, Y: 0, W: PageWidth, H: headerBandHeight, Fill: colorLight, Style: "F"},
		{Page: page, Kind: OpRect, X: 0, Y: 0, W: 5, H: headerBandHeight, Fill: colorPrimary, Style: "F"},
		{Page: page, Kind: OpText, X: 13, Y: 17, Text: Brand, Font: Font{Style: "B", Size: 18}, Color: colorPrimary},
		{Page: page, Kind: OpText, X: 65, Y: 17, Text: "·", Font: Font{Style: "B", Size: 18}, Color: colorGray},
		{Page: page, Kind: OpText, X: 72, Y: 17, Text: doc.Title, Font: Font{Size: 12}, Color: colorDark},
	}
	if doc.Subtitle != "" {
		ops = append(ops, Op{Page: page, Kind: OpText, X: 13, Y: 27, Text: doc.Subtitle, Font: Font{Size: 8}, Color: colorGray})
	}
	ops = append(ops,
		Op{Page: page, Kind: OpLine, X: 13, Y: 32, X2: PageWidth - 12, Y2: 32, Stroke: colorPrimary, LineWidth: 0.4},
		Op{Page: page, Kind: OpText, X: 13, Y: 40, Text: HeaderMeta(doc, now), Font: Font{Size: 7.5}, Color: colorGray},
	)
	return ops, Cursor{Y: contentStartY, Page: page}
}

func layoutSectionTitle(cur Cursor, title string) ([]Op, Cursor) {
	if cur.Y+sectionTitleStep > TableBottom {
		cur = cur.nextPage()
	}
	ops := []Op{
		{Page: cur.Page, Kind: OpRect, X: marginX, Y: cur.Y, W: 3, H: 7, Fill: colorPrimary, Style: "F"},
		{Page: cur.Page, Kind: OpText, X: 18, Y: cur.Y + 5.5, Text: title, Font: Font{Style: "B", Size: 10}, Color: colorDark},
	}
	cur.Y += sectionTitleStep
	return ops, cur
}

// TruncateKPIValue hard-cuts a card value to MaxKPIValueLen characters,
// without an ellipsis, so it never overflows its card.
func TruncateKPIValue(v string) string {
	if utf8.RuneCountInString(v) <= MaxKPIValueLen {
		return v
	}
	return string([]rune(v)[:MaxKPIValueLen])
}

func layoutKPIs(cur Cursor, cards []KPICard) ([]Op, Cursor) {
	var ops []Op
	for start := 0; start < len(cards); start += MaxKPIsPerRow {
		end := start + MaxKPIsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		row := cards[start:end]

		if cur.Y+kpiCardHeight > TableBottom {
			cur = cur.nextPage()
		}

		n := float64(len(row))
		cardW := (PageWidth - 2*marginX - kpiGap*(n-1)) / n
		for i, card := range row {
			cx := marginX + float64(i)*(cardW+kpiGap)
			ops = append(ops,
				Op{Page: cur.Page, Kind: OpRoundedRect, X: cx, Y: cur.Y, W: cardW, H: kpiCardHeight, Radius: 2,
					Fill: colorWhite, Stroke: colorCardBorder, Style: "FD", LineWidth: 0.2},
				Op{Page: cur.Page, Kind: OpRect, X: cx, Y: cur.Y, W: cardW, H: 2, Fill: colorPrimary, Style: "F"},
				Op{Page: cur.Page, Kind: OpText, X: cx + 4, Y: cur.Y + 9, Text: strings.ToUpper(card.Label),
					Font: Font{Style: "B", Size: 6}, Color: colorGray},
				Op{Page: cur.Page, Kind: OpText, X: cx + 4, Y: cur.Y + 18, Text: TruncateKPIValue(card.Value),
					Font: Font{Style: "B", Size: 9.5}, Color: colorDark},
			)
		}
		cur.Y += kpiRowStep
	}
	return ops, cur
}

type tableRow struct {
	cells  [][]string
	height float64
	empty  bool
}

var (
	headFont  = Font{Style: "B", Size: 7.5}
	bodyFont  = Font{Size: 7}
	emptyFont = Font{Style: "I", Size: 7}
)

func lineHeight(f Font) float64 {
	return f.Size * ptToMM * lineHeightFactor
}

// ColumnWidths spreads total across columns in proportion to their width
// hints.
func ColumnWidths(cols []Column, total float64) []float64 {
	widths := make([]float64, len(cols))
	sum := 0.0
	for i, col := range cols {
		w := col.Width
		if w <= 0 {
			w = DefaultColumnWidth
		}
		widths[i] = w
		sum += w
	}
	for i := range widths {
		widths[i] = widths[i] / sum * total
	}
	return widths
}

func layoutTable(cur Cursor, section Section, m Measurer) ([]Op, Cursor) {
	tableW := PageWidth - 2*marginX
	widths := ColumnWidths(section.Columns, tableW)

	headLH := lineHeight(headFont)
	bodyLH := lineHeight(bodyFont)

	// the tallest row must still fit under a repeated header on a fresh page
	headerCells := make([][]string, len(section.Columns))
	headerLines := 1
	for i, col := range section.Columns {
		headerCells[i] = WrapText(m, col.Label, headFont, widths[i]-2*headCellPadding)
		if len(headerCells[i]) > headerLines {
			headerLines = len(headerCells[i])
		}
	}
	headerH := float64(headerLines)*headLH + 2*headCellPadding
	maxLines := int((TableBottom - continuationY - headerH - 2*bodyCellPadV) / bodyLH)
	if maxLines < 1 {
		maxLines = 1
	}

	rows := make([]tableRow, 0, len(section.Rows))
	for _, rec := range section.Rows {
		row := tableRow{cells: make([][]string, len(section.Columns))}
		lines := 1
		for i, col := range section.Columns {
			cell := WrapText(m, DocumentValue(col, rec), bodyFont, widths[i]-2*bodyCellPadH)
			if len(cell) > maxLines {
				cell = cell[:maxLines]
			}
			row.cells[i] = cell
			if len(cell) > lines {
				lines = len(cell)
			}
		}
		row.height = float64(lines)*bodyLH + 2*bodyCellPadV
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = append(rows, tableRow{
			cells:  [][]string{{EmptyTableText}},
			height: bodyLH + 2*bodyCellPadV,
			empty:  true,
		})
	}

	var ops []Op
	header := func(y float64) {
		x := marginX
		for i := range section.Columns {
			ops = append(ops, Op{Page: cur.Page, Kind: OpRect, X: x, Y: y, W: widths[i], H: headerH, Fill: colorPrimary, Style: "F"})
			for li, line := range headerCells[i] {
				ops = append(ops, Op{Page: cur.Page, Kind: OpText, X: x + headCellPadding,
					Y: y + headCellPadding + float64(li)*headLH + headLH*0.8,
					Text: line, Font: headFont, Color: colorWhite})
			}
			x += widths[i]
		}
	}

	if cur.Y+headerH+rows[0].height > TableBottom {
		cur = cur.nextPage()
	}
	y := cur.Y
	header(y)
	y += headerH

	for r, row := range rows {
		if y+row.height > TableBottom {
			cur = cur.nextPage()
			y = cur.Y
			header(y)
			y += headerH
		}

		fill := colorWhite
		if r%2 == 1 {
			fill = colorStripe
		}
		ops = append(ops,
			Op{Page: cur.Page, Kind: OpRect, X: marginX, Y: y, W: tableW, H: row.height, Fill: fill, Style: "F"},
			Op{Page: cur.Page, Kind: OpLine, X: marginX, Y: y + row.height, X2: marginX + tableW, Y2: y + row.height,
				Stroke: colorRule, LineWidth: 0.1},
		)

		if row.empty {
			ops = append(ops, Op{Page: cur.Page, Kind: OpText, X: marginX + bodyCellPadH,
				Y: y + bodyCellPadV + bodyLH*0.8, Text: EmptyTableText, Font: emptyFont, Color: colorGray})
			y += row.height
			continue
		}

		x := marginX
		for i, cell := range row.cells {
			for li, line := range cell {
				if line == "" {
					continue
				}
				ops = append(ops, Op{Page: cur.Page, Kind: OpText, X: x + bodyCellPadH,
					Y: y + bodyCellPadV + float64(li)*bodyLH + bodyLH*0.8,
					Text: line, Font: bodyFont, Color: colorDark})
			}
			x += widths[i]
		}
		y += row.height
	}

	return ops, Cursor{Y: y + tableGapAfter, Page: cur.Page}
}

func layoutFooters(pages int) []Op {
	ops := make([]Op, 0, pages*4)
	for p := 1; p <= pages; p++ {
		ops = append(ops,
			Op{Page: p, Kind: OpRect, X: 0, Y: FooterTop, W: PageWidth, H: footerHeight, Fill: colorLight, Style: "F"},
			Op{Page: p, Kind: OpLine, X: 0, Y: FooterTop, X2: PageWidth, Y2: FooterTop, Stroke: colorPrimary, LineWidth: 0.3},
			Op{Page: p, Kind: OpText, X: 13, Y: 291, Text: FooterNotice, Font: Font{Size: 7}, Color: colorGray},
			Op{Page: p, Kind: OpText, X: PageWidth - 13, Y: 291, Text: PageLabel(p, pages), Font: Font{Size: 7},
				Color: colorGray, Align: AlignRight},
		)
	}
	return ops
}

// PageLabel returns "Page X / N"
func PageLabel(page, total int) string {
	return "Page " + strconv.Itoa(page) + " / " + strconv.Itoa(total)
}

// WrapText breaks text into lines no wider than maxW, splitting on spaces
// and, for words that are too long on their own, between characters.
// No-break spaces keep grouped numbers on one line.
func WrapText(m Measurer, text string, font Font, maxW float64) []string {
	if maxW <= 0 || text == "" {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Split(paragraph, " ") {
			if word == "" {
				continue
			}
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.TextWidth(candidate, font) <= maxW {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if m.TextWidth(word, font) <= maxW {
				line = word
				continue
			}
			chunks := splitWord(m, word, font, maxW)
			lines = append(lines, chunks[:len(chunks)-1]...)
			line = chunks[len(chunks)-1]
		}
		lines = append(lines, line)
	}
	return lines
}

func splitWord(m Measurer, word string, font Font, maxW float64) []string {
	var chunks []string
	chunk := ""
	for _, r := range word {
		next := chunk + string(r)
		if chunk != "" && m.TextWidth(next, font) > maxW {
			chunks = append(chunks, chunk)
			next = string(r)
		}
		chunk = next
	}
	return append(chunks, chunk)
}
