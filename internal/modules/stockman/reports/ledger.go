package reports

import (
	"strconv"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

var outflowTypes = map[string]bool{"expense": true, "loss": true, "purchase": true}

// LedgerPeriod labels the ledger with its date range, or the rolling window
// when the backend sent no explicit range.
func LedgerPeriod(data export.Record, opts Options) string {
	start, ok := export.ParseDate(data["period_start"])
	if !ok {
		return opts.periodLabel()
	}
	end := export.DocumentPlaceholder
	if t, ok := export.ParseDate(data["period_end"]); ok {
		end = export.FormatDate(t)
	}
	return export.FormatDate(start) + " → " + end
}

// Ledger exports the general ledger: every entry, sales only, and
// expenses with losses and purchases.
func Ledger(data export.Record, opts Options) *export.Job {
	currency := opts.currency()
	period := LedgerPeriod(data, opts)

	entries := list(data, "entries")
	sales := filter(entries, func(e export.Record) bool { return text(e, "type_code") == "sale" })
	outflows := filter(entries, func(e export.Record) bool { return outflowTypes[text(e, "type_code")] })

	sheetColumns := []export.Column{
		{Key: "date", Label: "Date / Heure", Width: 22, Type: export.TypeDate},
		{Key: "type", Label: "Type", Width: 20},
		{Key: "reference", Label: "Référence", Width: 16},
		{Key: "description", Label: "Description", Width: 45},
		{Key: "payment_method", Label: "Mode paiement", Width: 18},
		{Key: "amount_in", Label: "Entrée (+)", Width: 18, Type: export.TypeNumber},
		{Key: "amount_out", Label: "Sortie (–)", Width: 18, Type: export.TypeNumber},
		{Key: "balance", Label: "Solde cumulé", Width: 18, Type: export.TypeNumber},
	}
	docColumns := []export.Column{
		{Key: "date", Label: "Date", Width: 18, Type: export.TypeDate},
		{Key: "type", Label: "Type", Width: 18},
		{Key: "reference", Label: "Réf.", Width: 14},
		{Key: "description", Label: "Description", Width: 40},
		{Key: "amount_in", Label: "Entrée", Width: 16, Type: export.TypeNumber},
		{Key: "amount_out", Label: "Sortie", Width: 16, Type: export.TypeNumber},
		{Key: "balance", Label: "Solde", Width: 16, Type: export.TypeNumber},
	}

	totalIn := num(data, "total_in")
	totalOut := num(data, "total_out")
	net := num(data, "net_balance")
	entryCount := int(num(data, "count"))

	sheets := []export.Sheet{
		{
			Name:    "Grand Livre",
			Columns: sheetColumns,
			Rows:    entries,
			Summary: []export.SummaryRow{
				{Label: "TOTAL ENTRÉES (+)", Value: totalIn},
				{Label: "TOTAL SORTIES (–)", Value: totalOut},
				{Label: "SOLDE NET", Value: net},
				{Label: "NOMBRE D'ÉCRITURES", Value: entryCount},
			},
		},
		{
			Name:    "Ventes uniquement",
			Columns: sheetColumns,
			Rows:    sales,
			Summary: []export.SummaryRow{
				{Label: "TOTAL VENTES", Value: sum(sales, "amount_in")},
			},
		},
		{
			Name:    "Dépenses & Pertes",
			Columns: sheetColumns,
			Rows:    outflows,
			Summary: []export.SummaryRow{
				{Label: "TOTAL SORTIES", Value: totalOut},
			},
		},
	}

	sections := []export.Section{
		{
			Title: "Résumé",
			KPIs: []export.KPICard{
				{Label: "Total Entrées", Value: export.FormatMoney(totalIn, currency)},
				{Label: "Total Sorties", Value: export.FormatMoney(totalOut, currency)},
				{Label: "Solde Net", Value: export.FormatMoney(net, currency)},
				{Label: "Nb Écritures", Value: strconv.Itoa(entryCount)},
			},
		},
		{Title: "Journal Chronologique", Columns: docColumns, Rows: entries},
	}

	return newJob("Grand Livre Comptable", "Stockman_GrandLivre", period, opts, sheets, "Grand Livre Comptable", sections)
}
