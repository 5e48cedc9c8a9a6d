package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		spent float64
		want  string
	}{
		{0, TierBronze},
		{100_000, TierBronze},
		{100_001, TierSilver},
		{500_000, TierSilver},
		{500_001, TierGold},
		{1_000_000, TierGold},
		{1_000_001, TierPlatinum},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.spent), "total_spent=%v", tt.spent)
	}
}

func TestCRM(t *testing.T) {
	customers := []export.Record{
		{"name": "Awa", "total_spent": 500000.0, "total_debt": 2500.0},
		{"name": "Moussa", "total_spent": 750000.0},
		{"name": "Fatou", "total_spent": 2000000.0, "total_debt": 500.0},
		{"name": "Ibrahima"},
	}
	job := CRM(customers, Options{})

	all := sheetNamed(t, job, "Tous les Clients")
	assert.Equal(t, "Argent", all.Rows[0]["tier_label"])
	assert.Equal(t, "Or", all.Rows[1]["tier_label"])
	assert.Equal(t, "Platine", all.Rows[2]["tier_label"])
	assert.Equal(t, "Bronze", all.Rows[3]["tier_label"])

	assert.Equal(t, 3000.0, summaryValue(t, all, "DETTE TOTALE (F)"))
	assert.Equal(t, 3250000.0, summaryValue(t, all, "REVENUS GÉNÉRÉS (F)"))
	assert.Equal(t, 2, summaryValue(t, all, "CLIENTS VIP (Or + Platine)"))

	vip := sheetNamed(t, job, "Clients VIP")
	assert.Len(t, vip.Rows, 2)
	assert.Equal(t, 2750000.0, summaryValue(t, vip, "REVENUS VIP (F)"))

	assert.Equal(t, "Rapport CRM Clients", job.Document.Title)
	assert.Len(t, job.Document.Sections[1].Columns, 8)
}
