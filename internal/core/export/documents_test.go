package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferences(t *testing.T) {
	assert.Equal(t, "A1B2C3D4", OrderReference("a1b2c3d4-e5f6-7890"))
	assert.Equal(t, "AB", OrderReference("ab"))
	assert.Equal(t, "INV-123456", InvoiceReference(time.UnixMilli(1709648123456)))
}

func TestRenderPurchaseOrder(t *testing.T) {
	order := &PurchaseOrder{
		OrderID:      "a1b2c3d4-e5f6-7890",
		SupplierName: "Sodisal",
		Items: []OrderItem{
			{Name: "Riz 25kg", Quantity: 2, Price: 1500},
			{Name: "Huile 5L", Quantity: 1, UnitPrice: 4000, Price: 4500},
		},
	}

	file, err := RenderPurchaseOrder(order, testNow)
	require.NoError(t, err)
	assert.Equal(t, "commande_a1b2c3d4.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))

	layout := layoutPurchaseOrder(order, OrderReference(order.OrderID), "F", testNow, fixedMeasurer{})
	assert.Len(t, findText(layout, "Référence: #A1B2C3D4"), 1)
	assert.Len(t, findText(layout, "NET À PAYER : 7\u00a0000 F"), 1)
	assert.Len(t, findText(layout, "4\u00a0000 F"), 2)
	assert.Len(t, findText(layout, "Généré par Stockman Pro - Page 1 sur 1"), 1)
	assert.Empty(t, findText(layout, "Notes:"))
}

func TestRenderPurchaseOrderUsesStatedTotal(t *testing.T) {
	order := &PurchaseOrder{OrderID: "x", TotalAmount: 9000, Notes: "Livraison lundi", Items: []OrderItem{{Name: "Sucre", Quantity: 1, Price: 100}}}
	layout := layoutPurchaseOrder(order, "X", "F", testNow, fixedMeasurer{})

	assert.Len(t, findText(layout, "NET À PAYER : 9\u00a0000 F"), 1)
	assert.Len(t, findText(layout, "N/A"), 1)
	assert.Len(t, findText(layout, "Notes:"), 1)
	assert.Len(t, findText(layout, "Livraison lundi"), 1)
}

func TestRenderInvoice(t *testing.T) {
	inv := &Invoice{Items: []InvoiceItem{{Quantity: 3, Price: 2500}, {Description: "Livraison", Quantity: 1, Price: 1000}}}
	now := time.UnixMilli(1709648123456).UTC()

	file, err := RenderInvoice(inv, now)
	require.NoError(t, err)
	assert.Equal(t, "Facture_Client_1709648123456.pdf", file.Name)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))

	layout := layoutInvoice(inv, InvoiceReference(now), "F", now, fixedMeasurer{})
	assert.Len(t, findText(layout, "Client Divers"), 1)
	assert.Len(t, findText(layout, "Produit/Service"), 1)
	assert.Len(t, findText(layout, "8\u00a0500 F"), 1)
	assert.Len(t, findText(layout, "Référence: INV-123456"), 1)
	assert.Len(t, findText(layout, "Merci de votre confiance !"), layout.Pages)
}

func TestRenderInvoiceLongNotesPaginate(t *testing.T) {
	items := make([]InvoiceItem, 25)
	for i := range items {
		items[i] = InvoiceItem{Description: "Article", Quantity: 1, Price: 100}
	}
	inv := &Invoice{ClientName: "Awa / Diop", Notes: strings.Repeat("Paiement sous quinze jours. ", 60), Items: items}

	layout := layoutInvoice(inv, "INV-000001", "F", testNow, fixedMeasurer{})
	require.Greater(t, layout.Pages, 1)
	assert.Len(t, findText(layout, "Généré via Stockman Intelligence"), layout.Pages)
	for _, op := range textOps(layout) {
		assert.LessOrEqual(t, op.Y, 285.0)
	}

	file, err := RenderInvoice(inv, testNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Name, "Facture_Awa _ Diop_"))
}

func TestRenderDocumentsRequireItems(t *testing.T) {
	_, err := RenderPurchaseOrder(&PurchaseOrder{OrderID: "x"}, testNow)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = RenderInvoice(nil, testNow)
	assert.ErrorIs(t, err, ErrNoItems)
}
