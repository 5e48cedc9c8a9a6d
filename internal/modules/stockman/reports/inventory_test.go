package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

func TestInventoryDerivedFields(t *testing.T) {
	products := []export.Record{
		{"sku": "A1", "quantity": 0.0, "min_stock": 5.0, "purchase_price": 1000.0, "selling_price": 1500.0},
	}
	job := Inventory(products, Options{})

	full := sheetNamed(t, job, "Inventaire Complet")
	require.Len(t, full.Rows, 1)
	p := full.Rows[0]
	assert.Equal(t, "Rupture", p["stock_status"])
	assert.Equal(t, 0.0, p["stock_value"])
	assert.Equal(t, "33.3%", p["margin_pct"])
	assert.Equal(t, "–", p["category"])
	assert.Equal(t, "–", p["location"])

	_, touched := products[0]["stock_status"]
	assert.False(t, touched, "source records are not modified")
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, StatusOut, StockStatus(-2, 5))
	assert.Equal(t, StatusOut, StockStatus(0, 0))
	assert.Equal(t, StatusCritical, StockStatus(5, 5))
	assert.Equal(t, StatusNormal, StockStatus(6, 5))
}

func TestMarginPercent(t *testing.T) {
	assert.Equal(t, "–", MarginPercent(1000, 0))
	assert.Equal(t, "100.0%", MarginPercent(0, 1500))
	assert.Equal(t, "-50.0%", MarginPercent(1500, 1000))
}

func TestInventorySummaryReconciles(t *testing.T) {
	products := []export.Record{
		{"name": "Riz", "quantity": 12.0, "min_stock": 5.0, "purchase_price": 1250.5, "category_name": "Épicerie"},
		{"name": "Huile", "quantity": 3.0, "min_stock": 5.0, "purchase_price": 0.1},
		{"name": "Sucre", "quantity": "7", "min_stock": 2.0, "purchase_price": "350.3"},
		{"name": "Sel", "quantity": nil, "purchase_price": 100.0},
		{"name": "Lait", "quantity": 40.0, "min_stock": 10.0, "purchase_price": 0.7},
	}
	job := Inventory(products, Options{Currency: "FCFA"})
	full := sheetNamed(t, job, "Inventaire Complet")

	rowSum := 0.0
	for _, row := range full.Rows {
		rowSum += row["stock_value"].(float64)
	}
	total := summaryValue(t, full, "VALEUR STOCK TOTAL (FCFA)").(float64)
	assert.InDelta(t, rowSum, total, 1e-6)

	assert.Equal(t, 5, summaryValue(t, full, "TOTAL PRODUITS"))
	assert.Equal(t, 1, summaryValue(t, full, "EN RUPTURE DE STOCK"))
	assert.Equal(t, 1, summaryValue(t, full, "STOCK CRITIQUE (< min)"))
	assert.Equal(t, 3, summaryValue(t, full, "PRODUITS NORMAUX"))
	assert.Equal(t, "Épicerie", full.Rows[0]["category"])

	alerts := sheetNamed(t, job, "Alertes & Ruptures")
	assert.Len(t, alerts.Rows, 2)
	assert.Len(t, alerts.Columns, 10)
	assert.Equal(t, 2, summaryValue(t, alerts, "TOTAL ALERTES"))

	require.Len(t, job.Document.Sections, 2)
	kpis := job.Document.Sections[0].KPIs
	assert.Equal(t, "Valeur du Stock", kpis[1].Label)
	assert.Equal(t, export.FormatMoney(total, "FCFA"), kpis[1].Value)
	assert.Len(t, job.Document.Sections[1].Columns, 10)
}

func TestInventoryEmpty(t *testing.T) {
	job := Inventory(nil, Options{})
	full := sheetNamed(t, job, "Inventaire Complet")

	assert.Empty(t, full.Rows)
	assert.Equal(t, 0, summaryValue(t, full, "TOTAL PRODUITS"))
	assert.Equal(t, 0.0, summaryValue(t, full, "VALEUR STOCK TOTAL (F)"))
	assert.Equal(t, "0 F", job.Document.Sections[0].KPIs[1].Value)
}
