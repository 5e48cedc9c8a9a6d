package reports

import (
	"sort"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

// TopProducts caps the product table of the PDF report
const TopProducts = 30

// Accounting exports the financial summary, product performance and
// operating expenses of a period. stats is the backend statistics object.
func Accounting(stats export.Record, expenses []export.Record, opts Options) *export.Job {
	currency := opts.currency()

	period := text(stats, "period_label")
	if period == "" {
		period = opts.periodLabel()
	}

	perf := prepare(list(stats, "product_performance"), func(p, out export.Record) {
		revenue := num(p, "revenue")
		cogs := num(p, "cogs")
		out["margin"] = revenue - cogs
		out["margin_pct"] = export.Percent(revenue-cogs, revenue)
	})
	sort.SliceStable(perf, func(i, j int) bool {
		return num(perf[i], "revenue") > num(perf[j], "revenue")
	})

	perfColumns := []export.Column{
		{Key: "name", Label: "Produit", Width: 32},
		{Key: "qty_sold", Label: "Qté Vendue", Width: 14, Type: export.TypeNumber},
		{Key: "revenue", Label: withCurrency("Ventes", currency), Width: 20, Type: export.TypeNumber},
		{Key: "cogs", Label: withCurrency("Coût", currency), Width: 20, Type: export.TypeNumber},
		{Key: "margin", Label: withCurrency("Marge", currency), Width: 20, Type: export.TypeNumber},
		{Key: "margin_pct", Label: "Marge %", Width: 12},
	}
	expenseColumns := []export.Column{
		{Key: "created_at", Label: "Date", Width: 16, Type: export.TypeDate},
		{Key: "category", Label: "Catégorie", Width: 22},
		{Key: "description", Label: "Description", Width: 38},
		{Key: "amount", Label: withCurrency("Montant", currency), Width: 20, Type: export.TypeNumber},
	}
	summaryColumns := []export.Column{
		{Key: "label", Label: "Indicateur Financier", Width: 38},
		{Key: "value", Label: withCurrency("Montant", currency), Width: 24, Type: export.TypeNumber},
	}

	revenue := num(stats, "revenue")
	grossProfit := num(stats, "gross_profit")
	netProfit := num(stats, "net_profit")
	totalExpenses := sum(expenses, "amount")

	summary := []export.Record{
		{"label": "Chiffre d'affaires (CA)", "value": revenue},
		{"label": "Coût des marchandises vendues (COGS)", "value": revenue - grossProfit},
		{"label": "Marge brute", "value": grossProfit},
		{"label": "Marge brute %", "value": export.Percent(grossProfit, revenue)},
		{"label": "Dépenses opérationnelles", "value": totalExpenses},
		{"label": "Bénéfice net", "value": netProfit},
		{"label": "Marge nette %", "value": export.Percent(netProfit, revenue)},
	}

	sheets := []export.Sheet{
		{Name: "Résumé Financier", Columns: summaryColumns, Rows: summary},
		{
			Name:    "Performance Produits",
			Columns: perfColumns,
			Rows:    perf,
			Summary: []export.SummaryRow{
				{Label: withCurrency("CA Total", currency), Value: revenue},
				{Label: withCurrency("Marge Brute Totale", currency), Value: grossProfit},
			},
		},
		{
			Name:    "Dépenses",
			Columns: expenseColumns,
			Rows:    expenses,
			Summary: []export.SummaryRow{
				{Label: withCurrency("TOTAL DÉPENSES", currency), Value: totalExpenses},
			},
		},
	}

	top := perf
	if len(top) > TopProducts {
		top = top[:TopProducts]
	}
	sections := []export.Section{
		{
			Title: "Résumé Financier",
			KPIs: []export.KPICard{
				{Label: "Chiffre d'Affaires", Value: export.FormatMoney(revenue, currency)},
				{Label: "Marge Brute", Value: export.FormatMoney(grossProfit, currency)},
				{Label: "Dépenses", Value: export.FormatMoney(totalExpenses, currency)},
				{Label: "Bénéfice Net", Value: export.FormatMoney(netProfit, currency)},
			},
		},
		{Title: "Indicateurs Financiers Détaillés", Columns: summaryColumns, Rows: summary},
		{Title: "Top Produits par Performance", Columns: perfColumns, Rows: top},
		{Title: "Dépenses Opérationnelles", Columns: expenseColumns, Rows: expenses},
	}

	return newJob("Rapport Financier", "Stockman_Comptabilite", period, opts, sheets, "Rapport Financier", sections)
}
