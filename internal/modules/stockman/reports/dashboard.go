package reports

import (
	"strconv"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

var salesSeriesKeys = []string{"sales_chart", "daily_revenue", "revenue_chart"}

// Dashboard exports the dashboard indicators and, when the backend sent
// one, the daily sales series.
func Dashboard(data export.Record, opts Options) *export.Job {
	currency := opts.currency()
	period := opts.periodLabel()

	kpiRows := []export.Record{
		{"label": "CA Aujourd'hui", "valeur": num(data, "today_revenue")},
		{"label": "Ventes Aujourd'hui (nb)", "valeur": num(data, "today_sales_count")},
		{"label": "CA du Mois en cours", "valeur": num(data, "month_revenue")},
		{"label": "Valeur totale du Stock", "valeur": num(data, "total_stock_value")},
		{"label": "Produits en Rupture", "valeur": num(data, "out_of_stock_count")},
		{"label": "Stock Faible (< min)", "valeur": num(data, "low_stock_count")},
		{"label": "Nouveaux Clients (mois)", "valeur": num(data, "new_customers_month")},
		{"label": "Marge Brute Estimée", "valeur": num(data, "gross_profit")},
	}
	kpiColumns := []export.Column{
		{Key: "label", Label: "Indicateur", Width: 38},
		{Key: "valeur", Label: "Valeur (" + currency + " ou nb)", Width: 24, Type: export.TypeNumber},
	}

	sales := prepare(salesSeries(data), func(d, out export.Record) {
		out["date"] = firstValue(d, export.DocumentPlaceholder, "date", "day", "_id")
		out["revenue"] = firstNumber(d, "revenue", "total", "amount")
		out["orders"] = firstNumber(d, "orders", "count", "sales_count")
	})
	salesColumns := []export.Column{
		{Key: "date", Label: "Date", Width: 18},
		{Key: "revenue", Label: withCurrency("CA", currency), Width: 20, Type: export.TypeNumber},
		{Key: "orders", Label: "Nb Ventes", Width: 14, Type: export.TypeNumber},
	}

	sheets := []export.Sheet{
		{Name: "Indicateurs KPI", Columns: kpiColumns, Rows: kpiRows},
	}
	sections := []export.Section{
		{
			Title: "Indicateurs Clés de Performance",
			KPIs: []export.KPICard{
				{Label: "CA Aujourd'hui", Value: export.FormatMoney(num(data, "today_revenue"), currency)},
				{Label: "CA du Mois", Value: export.FormatMoney(num(data, "month_revenue"), currency)},
				{Label: "Valeur Stock", Value: export.FormatMoney(num(data, "total_stock_value"), currency)},
				{Label: "Ruptures", Value: strconv.FormatFloat(num(data, "out_of_stock_count"), 'f', -1, 64)},
			},
		},
		{Title: "Détail des Métriques", Columns: kpiColumns, Rows: kpiRows},
	}

	if len(sales) > 0 {
		sheets = append(sheets, export.Sheet{
			Name:    "Ventes Quotidiennes",
			Columns: salesColumns,
			Rows:    sales,
			Summary: []export.SummaryRow{
				{Label: withCurrency("CA Total", currency), Value: sum(sales, "revenue")},
				{Label: "Total Transactions", Value: sum(sales, "orders")},
			},
		})
		sections = append(sections, export.Section{Title: "Évolution des Ventes", Columns: salesColumns, Rows: sales})
	}

	return newJob("Tableau de Bord", "Stockman_Dashboard", period, opts, sheets, "Tableau de Bord", sections)
}

// salesSeries picks the first series key the backend sent, even when that
// series is empty.
func salesSeries(data export.Record) []export.Record {
	for _, key := range salesSeriesKeys {
		if has(data, key) {
			return list(data, key)
		}
	}
	return nil
}
