package reports

import (
	"strconv"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

// Stock statuses
const (
	StatusOut      = "Rupture"
	StatusCritical = "Critique"
	StatusNormal   = "Normal"
)

// StockStatus classifies a quantity against the product's minimum stock
func StockStatus(quantity, minStock float64) string {
	switch {
	case quantity <= 0:
		return StatusOut
	case quantity <= minStock:
		return StatusCritical
	default:
		return StatusNormal
	}
}

// MarginPercent is the gross margin on the selling price, "–" when the
// product has no selling price.
func MarginPercent(purchase, selling float64) string {
	if selling <= 0 {
		return export.DocumentPlaceholder
	}
	return export.Percent(selling-purchase, selling)
}

func inventoryColumns(currency string) []export.Column {
	return []export.Column{
		{Key: "sku", Label: "SKU / Code", Width: 16},
		{Key: "name", Label: "Nom du Produit", Width: 34},
		{Key: "category", Label: "Catégorie", Width: 20},
		{Key: "quantity", Label: "Stock Actuel", Width: 14, Type: export.TypeNumber},
		{Key: "unit", Label: "Unité", Width: 10},
		{Key: "min_stock", Label: "Stock Min", Width: 12, Type: export.TypeNumber},
		{Key: "max_stock", Label: "Stock Max", Width: 12, Type: export.TypeNumber},
		{Key: "purchase_price", Label: withCurrency("Prix Achat", currency), Width: 20, Type: export.TypeNumber},
		{Key: "selling_price", Label: withCurrency("Prix Vente", currency), Width: 20, Type: export.TypeNumber},
		{Key: "margin_pct", Label: "Marge %", Width: 12},
		{Key: "stock_value", Label: withCurrency("Val. Stock", currency), Width: 20, Type: export.TypeNumber},
		{Key: "location", Label: "Emplacement", Width: 20},
		{Key: "stock_status", Label: "Statut Stock", Width: 14},
		{Key: "description", Label: "Description", Width: 40},
	}
}

// Inventory exports the product catalogue with stock valuation and alerts
func Inventory(products []export.Record, opts Options) *export.Job {
	currency := opts.currency()

	prepared := prepare(products, func(p, out export.Record) {
		qty := num(p, "quantity")
		purchase := num(p, "purchase_price")

		out["category"] = firstValue(p, export.DocumentPlaceholder, "category_name", "category")
		out["location"] = firstValue(p, export.DocumentPlaceholder, "location_name", "location")
		out["margin_pct"] = MarginPercent(purchase, num(p, "selling_price"))
		out["stock_status"] = StockStatus(qty, num(p, "min_stock"))
		out["stock_value"] = qty * purchase
	})

	columns := inventoryColumns(currency)
	alertColumns := columns[:10]

	totalValue := sum(prepared, "stock_value")
	outOfStock, critical := 0, 0
	for _, p := range prepared {
		switch p["stock_status"] {
		case StatusOut:
			outOfStock++
		case StatusCritical:
			critical++
		}
	}
	alerts := filter(prepared, func(p export.Record) bool {
		return num(p, "quantity") <= num(p, "min_stock")
	})

	sheets := []export.Sheet{
		{
			Name:    "Inventaire Complet",
			Columns: columns,
			Rows:    prepared,
			Summary: []export.SummaryRow{
				{Label: "TOTAL PRODUITS", Value: len(prepared)},
				{Label: withCurrency("VALEUR STOCK TOTAL", currency), Value: totalValue},
				{Label: "EN RUPTURE DE STOCK", Value: outOfStock},
				{Label: "STOCK CRITIQUE (< min)", Value: critical},
				{Label: "PRODUITS NORMAUX", Value: len(prepared) - outOfStock - critical},
			},
		},
		{
			Name:    "Alertes & Ruptures",
			Columns: alertColumns,
			Rows:    alerts,
			Summary: []export.SummaryRow{
				{Label: "TOTAL ALERTES", Value: len(alerts)},
			},
		},
	}

	sections := []export.Section{
		{
			Title: "Résumé Inventaire",
			KPIs: []export.KPICard{
				{Label: "Total Produits", Value: strconv.Itoa(len(prepared))},
				{Label: "Valeur du Stock", Value: export.FormatMoney(totalValue, currency)},
				{Label: "Ruptures", Value: strconv.Itoa(outOfStock)},
				{Label: "Stock Critique", Value: strconv.Itoa(critical)},
			},
		},
		{Title: "Liste Complète", Columns: columns[:10], Rows: prepared},
	}

	return newJob("Inventaire Produits", "Stockman_Inventaire", "", opts, sheets, "Inventaire Produits", sections)
}
