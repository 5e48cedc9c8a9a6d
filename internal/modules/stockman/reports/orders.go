package reports

import (
	"strconv"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

var orderStatusLabels = map[string]string{
	"pending":   "En attente",
	"ordered":   "Commandé",
	"received":  "Reçu",
	"partial":   "Partiel",
	"cancelled": "Annulé",
}

// StatusLabel translates an order status code. Unknown codes pass through
// unchanged and an empty code renders as "–".
func StatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}
	if status == "" {
		return export.DocumentPlaceholder
	}
	return status
}

// Orders exports supplier orders with their status and amounts
func Orders(orders []export.Record, opts Options) *export.Job {
	currency := opts.currency()

	prepared := prepare(orders, func(o, out export.Record) {
		items := list(o, "items")
		total := num(o, "total_amount")
		if total == 0 {
			total = sum(items, "total_price")
		}

		out["supplier_name"] = firstValue(o, export.DocumentPlaceholder, "supplier_name", "supplier.name")
		out["items_count"] = len(items)
		out["total_amount"] = total
		out["status_label"] = StatusLabel(text(o, "status"))
	})

	columns := []export.Column{
		{Key: "order_number", Label: "N° Commande", Width: 18},
		{Key: "supplier_name", Label: "Fournisseur", Width: 26},
		{Key: "created_at", Label: "Date", Width: 16, Type: export.TypeDate},
		{Key: "status_label", Label: "Statut", Width: 16},
		{Key: "items_count", Label: "Nb Articles", Width: 14, Type: export.TypeNumber},
		{Key: "total_amount", Label: withCurrency("Montant", currency), Width: 20, Type: export.TypeNumber},
		{Key: "notes", Label: "Notes", Width: 35},
	}

	byStatus := func(statuses ...string) int {
		n := 0
		for _, o := range prepared {
			status := text(o, "status")
			for _, s := range statuses {
				if status == s {
					n++
					break
				}
			}
		}
		return n
	}

	totalAmount := sum(prepared, "total_amount")
	pending := byStatus("pending", "ordered")
	received := byStatus("received")

	sheets := []export.Sheet{
		{
			Name:    "Commandes",
			Columns: columns,
			Rows:    prepared,
			Summary: []export.SummaryRow{
				{Label: "TOTAL COMMANDES", Value: len(prepared)},
				{Label: withCurrency("MONTANT TOTAL", currency), Value: totalAmount},
				{Label: "EN ATTENTE / EN COURS", Value: pending},
				{Label: "REÇUES", Value: received},
				{Label: "ANNULÉES", Value: byStatus("cancelled")},
			},
		},
	}

	sections := []export.Section{
		{
			Title: "Vue d'Ensemble",
			KPIs: []export.KPICard{
				{Label: "Total Commandes", Value: strconv.Itoa(len(prepared))},
				{Label: "Montant Total", Value: export.FormatMoney(totalAmount, currency)},
				{Label: "En Attente", Value: strconv.Itoa(pending)},
				{Label: "Reçues", Value: strconv.Itoa(received)},
			},
		},
		{Title: "Liste des Commandes", Columns: columns, Rows: prepared},
	}

	return newJob("Commandes Fournisseurs", "Stockman_Commandes", "", opts, sheets, "Commandes Fournisseurs", sections)
}
