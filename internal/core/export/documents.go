package export

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrNoItems = errors.New("document has no items")

var colorSlate = Color{30, 41, 59}

// OrderItem is one line of a supplier purchase order
type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Price     float64 `json:"price"`
}

// price falls back to the catalogue price when no unit price was agreed
func (i OrderItem) price() float64 {
	if i.UnitPrice != 0 {
		return i.UnitPrice
	}
	return i.Price
}

// PurchaseOrder is a supplier order as returned by the backend
type PurchaseOrder struct {
	OrderID       string      `json:"order_id"`
	SupplierName  string      `json:"supplier_name"`
	SupplierPhone string      `json:"supplier_phone"`
	Notes         string      `json:"notes"`
	CreatedAt     time.Time   `json:"created_at"`
	TotalAmount   float64     `json:"total_amount"`
	Currency      string      `json:"currency"`
	Items         []OrderItem `json:"items"`
}

// InvoiceItem is one billed line
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// Invoice is an ad-hoc customer invoice
type Invoice struct {
	ClientName string        `json:"client_name"`
	Notes      string        `json:"notes"`
	Currency   string        `json:"currency"`
	Items      []InvoiceItem `json:"items"`
}

// Total sums quantity × price over every line
func (inv *Invoice) Total() float64 {
	total := 0.0
	for _, item := range inv.Items {
		total += item.Quantity * item.Price
	}
	return total
}

// OrderReference returns the first 8 characters of the order id, upper-cased
func OrderReference(orderID string) string {
	return strings.ToUpper(firstRunes(orderID, 8))
}

// InvoiceReference derives "INV-" plus the last 6 digits of the unix
// millisecond timestamp
func InvoiceReference(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "INV-" + ms
}

var unsafeFilename = strings.NewReplacer("/", "_", "\\", "_", "\"", "_")

// RenderPurchaseOrder renders a supplier order as a "BON DE COMMANDE" PDF
func RenderPurchaseOrder(order *PurchaseOrder, now time.Time) (*File, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, ErrNoItems
	}

	currency := order.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	ref := OrderReference(order.OrderID)

	var buf bytes.Buffer
	exporter := NewPDFExporter()
	err := exporter.render("BON DE COMMANDE #"+ref, order.SupplierName, now, &buf, func(m Measurer) DocumentLayout {
		return layoutPurchaseOrder(order, ref, currency, now, m)
	})
	if err != nil {
		return nil, fmt.Errorf("purchase order export failed: %w", err)
	}

	return &File{
		Name:        fmt.Sprintf("commande_%s.pdf", unsafeFilename.Replace(firstRunes(order.OrderID, 8))),
		ContentType: exporter.GetContentType(),
		Size:        int64(buf.Len()),
		Data:        buf.Bytes(),
	}, nil
}

func layoutPurchaseOrder(order *PurchaseOrder, ref, currency string, now time.Time, m Measurer) DocumentLayout {
	created := order.CreatedAt
	if created.IsZero() {
		created = now
	}
	supplier := order.SupplierName
	if supplier == "" {
		supplier = "N/A"
	}

	ops := []Op{
		{Page: 1, Kind: OpText, X: 14, Y: 22, Text: "BON DE COMMANDE", Font: Font{Style: "B", Size: 22}, Color: colorSlate},
		{Page: 1, Kind: OpText, X: 14, Y: 30, Text: "Référence: #" + ref, Font: Font{Size: 10}, Color: colorGray},
		{Page: 1, Kind: OpText, X: 14, Y: 35, Text: "Date: " + FormatDate(created), Font: Font{Size: 10}, Color: colorGray},
		{Page: 1, Kind: OpText, X: 14, Y: 50, Text: "FOURNISSEUR", Font: Font{Style: "B", Size: 12}, Color: colorSlate},
		{Page: 1, Kind: OpText, X: 14, Y: 56, Text: supplier, Font: Font{Size: 10}, Color: colorGray},
	}
	if order.SupplierPhone != "" {
		ops = append(ops, Op{Page: 1, Kind: OpText, X: 14, Y: 61, Text: "Tél: " + order.SupplierPhone,
			Font: Font{Size: 10}, Color: colorGray})
	}

	computed := 0.0
	rows := make([]Record, 0, len(order.Items))
	for _, item := range order.Items {
		line := item.price() * item.Quantity
		computed += line
		rows = append(rows, Record{
			"name":       item.Name,
			"quantity":   item.Quantity,
			"unit_price": FormatMoney(item.price(), currency),
			"total":      FormatMoney(line, currency),
		})
	}
	total := order.TotalAmount
	if total == 0 {
		total = computed
	}

	tableOps, cur := layoutTable(Cursor{Y: 70, Page: 1}, itemSection("Article", rows), m)
	ops = append(ops, tableOps...)

	y := cur.Y - tableGapAfter + 10
	ops = append(ops, Op{Page: cur.Page, Kind: OpText, X: PageWidth - 14, Y: y, Text: "NET À PAYER : " + FormatMoney(total, currency),
		Font: Font{Style: "B", Size: 12}, Color: colorSlate, Align: AlignRight})

	notesOps, cur := layoutNotes(Cursor{Y: y + 10, Page: cur.Page}, order.Notes, 14, 180, Font{Size: 9}, m)
	ops = append(ops, notesOps...)

	for p := 1; p <= cur.Page; p++ {
		footer := fmt.Sprintf("Généré par Stockman Pro - Page %d sur %d", p, cur.Page)
		ops = append(ops, Op{Page: p, Kind: OpText, X: 14, Y: 285, Text: footer, Font: Font{Size: 8}, Color: Color{150, 150, 150}})
	}
	return DocumentLayout{Ops: ops, Pages: cur.Page}
}

// RenderInvoice renders a customer invoice as a "FACTURE" PDF
func RenderInvoice(inv *Invoice, now time.Time) (*File, error) {
	if inv == nil || len(inv.Items) == 0 {
		return nil, ErrNoItems
	}

	currency := inv.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	ref := InvoiceReference(now)

	var buf bytes.Buffer
	exporter := NewPDFExporter()
	err := exporter.render("FACTURE "+ref, inv.ClientName, now, &buf, func(m Measurer) DocumentLayout {
		return layoutInvoice(inv, ref, currency, now, m)
	})
	if err != nil {
		return nil, fmt.Errorf("invoice export failed: %w", err)
	}

	client := inv.ClientName
	if client == "" {
		client = "Client"
	}
	return &File{
		Name:        fmt.Sprintf("Facture_%s_%d.pdf", unsafeFilename.Replace(client), now.UnixMilli()),
		ContentType: exporter.GetContentType(),
		Size:        int64(buf.Len()),
		Data:        buf.Bytes(),
	}, nil
}

func layoutInvoice(inv *Invoice, ref, currency string, now time.Time, m Measurer) DocumentLayout {
	client := inv.ClientName
	if client == "" {
		client = "Client Divers"
	}

	ops := []Op{
		{Page: 1, Kind: OpRect, X: 0, Y: 0, W: PageWidth, H: 5, Fill: colorPrimary, Style: "F"},
		{Page: 1, Kind: OpText, X: 15, Y: 25, Text: "FACTURE", Font: Font{Style: "B", Size: 22}, Color: colorSlate},
		{Page: 1, Kind: OpText, X: 15, Y: 32, Text: "Référence: " + ref, Font: Font{Size: 10}, Color: colorSlate},
		{Page: 1, Kind: OpText, X: 15, Y: 38, Text: "Date: " + FormatDate(now), Font: Font{Size: 10}, Color: colorSlate},
		{Page: 1, Kind: OpText, X: 120, Y: 25, Text: "FACTURÉ À:", Font: Font{Style: "B", Size: 10}, Color: colorSlate},
		{Page: 1, Kind: OpText, X: 120, Y: 32, Text: client, Font: Font{Size: 10}, Color: colorSlate},
	}

	rows := make([]Record, 0, len(inv.Items))
	for _, item := range inv.Items {
		desc := item.Description
		if desc == "" {
			desc = "Produit/Service"
		}
		rows = append(rows, Record{
			"name":       desc,
			"quantity":   item.Quantity,
			"unit_price": FormatMoney(item.Price, currency),
			"total":      FormatMoney(item.Quantity*item.Price, currency),
		})
	}

	tableOps, cur := layoutTable(Cursor{Y: 50, Page: 1}, itemSection("Désignation", rows), m)
	ops = append(ops, tableOps...)

	y := cur.Y - tableGapAfter + 10
	ops = append(ops,
		Op{Page: cur.Page, Kind: OpText, X: 130, Y: y, Text: "TOTAL GÉNÉRAL:", Font: Font{Style: "B", Size: 10}, Color: colorSlate},
		Op{Page: cur.Page, Kind: OpText, X: PageWidth - 15, Y: y, Text: FormatMoney(inv.Total(), currency),
			Font: Font{Style: "B", Size: 10}, Color: colorSlate, Align: AlignRight},
	)

	notesOps, cur := layoutNotes(Cursor{Y: y + 10, Page: cur.Page}, inv.Notes, 15, 100, Font{Size: 8}, m)
	ops = append(ops, notesOps...)

	for p := 1; p <= cur.Page; p++ {
		ops = append(ops,
			Op{Page: p, Kind: OpText, X: PageWidth / 2, Y: 280, Text: "Merci de votre confiance !",
				Font: Font{Size: 8}, Color: Color{148, 163, 184}, Align: AlignCenter},
			Op{Page: p, Kind: OpText, X: PageWidth / 2, Y: 285, Text: "Généré via Stockman Intelligence",
				Font: Font{Size: 8}, Color: Color{148, 163, 184}, Align: AlignCenter},
		)
	}
	return DocumentLayout{Ops: ops, Pages: cur.Page}
}

func itemSection(first string, rows []Record) Section {
	return Section{
		Columns: []Column{
			{Key: "name", Label: first, Width: 40},
			{Key: "quantity", Label: "Quantité", Width: 15, Type: TypeNumber},
			{Key: "unit_price", Label: "Prix Unitaire", Width: 22},
			{Key: "total", Label: "Total", Width: 22},
		},
		Rows: rows,
	}
}

// layoutNotes writes a "Notes:" label followed by the wrapped text,
// continuing on a new page when the text reaches the bottom margin.
func layoutNotes(cur Cursor, notes string, x, width float64, font Font, m Measurer) ([]Op, Cursor) {
	if strings.TrimSpace(notes) == "" {
		return nil, cur
	}
	lh := lineHeight(font) + 0.5
	if cur.Y+lh*2 > TableBottom {
		cur = cur.nextPage()
	}

	ops := []Op{{Page: cur.Page, Kind: OpText, X: x, Y: cur.Y, Text: "Notes:", Font: Font{Style: "B", Size: font.Size}, Color: colorGray}}
	cur.Y += 6
	for _, line := range WrapText(m, notes, font, width) {
		if cur.Y > TableBottom {
			cur = cur.nextPage()
		}
		ops = append(ops, Op{Page: cur.Page, Kind: OpText, X: x, Y: cur.Y, Text: line, Font: font, Color: colorGray})
		cur.Y += lh
	}
	return ops, cur
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
