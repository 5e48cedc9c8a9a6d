package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var ErrNoDocument = errors.New("export job has no document")

// glyphs the core fonts cannot encode in cp1252
var pdfReplacer = strings.NewReplacer(
	"→", "->",
	"\u202f", "\u00a0",
	"✓", "v",
)

// PDFExporter implements PDF export using gofpdf
type PDFExporter struct {
	fontFamily string
}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{fontFamily: "Helvetica"}
}

// Export lays out the job's document and paints it page by page
func (p *PDFExporter) Export(job *Job, now time.Time, writer io.Writer) error {
	if job == nil || job.Document == nil {
		return ErrNoDocument
	}
	doc := job.Document
	return p.render(doc.Title, doc.Subtitle, now, writer, func(m Measurer) DocumentLayout {
		return LayoutDocument(doc, now, m)
	})
}

// render sets up an A4 page without automatic breaks, lets build lay out
// the content against the real font metrics and paints the result.
func (p *PDFExporter) render(title, subject string, now time.Time, writer io.Writer, build func(Measurer) DocumentLayout) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(title, true)
	pdf.SetSubject(subject, true)
	pdf.SetCreator(Brand, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	encode := func(s string) string {
		return tr(pdfReplacer.Replace(s))
	}

	layout := build(&fpdfMeasurer{pdf: pdf, family: p.fontFamily, encode: encode})

	pages := make([][]Op, layout.Pages+1)
	for _, op := range layout.Ops {
		if op.Page < 1 || op.Page > layout.Pages {
			continue
		}
		pages[op.Page] = append(pages[op.Page], op)
	}
	for page := 1; page <= layout.Pages; page++ {
		pdf.AddPage()
		for _, op := range pages[page] {
			p.paint(pdf, encode, op)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) paint(pdf *gofpdf.Fpdf, encode func(string) string, op Op) {
	switch op.Kind {
	case OpRect, OpRoundedRect:
		pdf.SetFillColor(op.Fill.R, op.Fill.G, op.Fill.B)
		if strings.Contains(op.Style, "D") {
			pdf.SetDrawColor(op.Stroke.R, op.Stroke.G, op.Stroke.B)
			pdf.SetLineWidth(op.LineWidth)
		}
		if op.Kind == OpRoundedRect {
			pdf.RoundedRect(op.X, op.Y, op.W, op.H, op.Radius, "1234", op.Style)
		} else {
			pdf.Rect(op.X, op.Y, op.W, op.H, op.Style)
		}
	case OpLine:
		pdf.SetDrawColor(op.Stroke.R, op.Stroke.G, op.Stroke.B)
		pdf.SetLineWidth(op.LineWidth)
		pdf.Line(op.X, op.Y, op.X2, op.Y2)
	case OpText:
		pdf.SetFont(p.fontFamily, op.Font.Style, op.Font.Size)
		pdf.SetTextColor(op.Color.R, op.Color.G, op.Color.B)
		txt := encode(op.Text)
		x := op.X
		switch op.Align {
		case AlignRight:
			x -= pdf.GetStringWidth(txt)
		case AlignCenter:
			x -= pdf.GetStringWidth(txt) / 2
		}
		pdf.Text(x, op.Y, txt)
	}
}

// GetContentType returns the MIME type for PDF files
func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

// GetFileExtension returns the file extension for PDF files
func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

type fpdfMeasurer struct {
	pdf    *gofpdf.Fpdf
	family string
	encode func(string) string
}

func (m *fpdfMeasurer) TextWidth(text string, font Font) float64 {
	m.pdf.SetFont(m.family, font.Style, font.Size)
	return m.pdf.GetStringWidth(m.encode(text))
}
