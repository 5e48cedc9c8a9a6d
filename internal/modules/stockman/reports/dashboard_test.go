package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

func TestDashboardWithoutSales(t *testing.T) {
	job := Dashboard(export.Record{"today_revenue": 12500.0, "out_of_stock_count": 3.0}, Options{})

	require.Len(t, job.Workbook.Sheets, 1)
	kpis := sheetNamed(t, job, "Indicateurs KPI")
	assert.Len(t, kpis.Rows, 8)
	assert.Equal(t, 12500.0, kpis.Rows[0]["valeur"])
	assert.Equal(t, 0.0, kpis.Rows[1]["valeur"])
	assert.Equal(t, "Derniers 30 jours", job.Workbook.Period)

	require.Len(t, job.Document.Sections, 2)
	assert.Equal(t, "3", job.Document.Sections[0].KPIs[3].Value)
}

func TestDashboardSalesSeries(t *testing.T) {
	data := export.Record{
		"daily_revenue": []interface{}{
			map[string]interface{}{"date": "2024-03-01", "revenue": 1000.0, "orders": 2.0},
			map[string]interface{}{"day": "2024-03-02", "total": 2500.0, "count": 3.0},
			map[string]interface{}{"_id": "2024-03-03", "amount": 500.0, "sales_count": 1.0},
			map[string]interface{}{},
		},
	}
	job := Dashboard(data, Options{Period: 7, Currency: "FCFA"})

	sales := sheetNamed(t, job, "Ventes Quotidiennes")
	require.Len(t, sales.Rows, 4)
	assert.Equal(t, "2024-03-02", sales.Rows[1]["date"])
	assert.Equal(t, 2500.0, sales.Rows[1]["revenue"])
	assert.Equal(t, 1.0, sales.Rows[2]["orders"])
	assert.Equal(t, "–", sales.Rows[3]["date"])
	assert.Equal(t, 0.0, sales.Rows[3]["revenue"])

	assert.Equal(t, 4000.0, summaryValue(t, sales, "CA Total (FCFA)"))
	assert.Equal(t, 6.0, summaryValue(t, sales, "Total Transactions"))
	assert.Equal(t, "Derniers 7 jours", job.Document.Period)
	assert.Len(t, job.Document.Sections, 3)
}

func TestDashboardFirstPresentSeriesWins(t *testing.T) {
	data := export.Record{
		"sales_chart":   []interface{}{},
		"revenue_chart": []interface{}{map[string]interface{}{"date": "x", "revenue": 1.0}},
	}
	job := Dashboard(data, Options{})
	assert.Len(t, job.Workbook.Sheets, 1)
}
