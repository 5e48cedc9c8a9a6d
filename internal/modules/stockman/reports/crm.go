package reports

import (
	"strconv"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

// Loyalty tiers, from the top down
const (
	TierPlatinum = "Platine"
	TierGold     = "Or"
	TierSilver   = "Argent"
	TierBronze   = "Bronze"
)

// Tier resolves the loyalty tier of a customer. Each threshold must be
// strictly exceeded.
func Tier(totalSpent float64) string {
	switch {
	case totalSpent > 1_000_000:
		return TierPlatinum
	case totalSpent > 500_000:
		return TierGold
	case totalSpent > 100_000:
		return TierSilver
	default:
		return TierBronze
	}
}

func isVIP(c export.Record) bool {
	tier := c["tier_label"]
	return tier == TierGold || tier == TierPlatinum
}

// CRM exports the customer list with loyalty tiers and outstanding debt
func CRM(customers []export.Record, opts Options) *export.Job {
	currency := opts.currency()

	prepared := prepare(customers, func(c, out export.Record) {
		out["tier_label"] = Tier(num(c, "total_spent"))
	})

	columns := []export.Column{
		{Key: "name", Label: "Nom Complet", Width: 28},
		{Key: "phone", Label: "Téléphone", Width: 18},
		{Key: "email", Label: "Email", Width: 30},
		{Key: "category", Label: "Catégorie", Width: 16},
		{Key: "tier_label", Label: "Niveau Fidélité", Width: 16},
		{Key: "loyalty_points", Label: "Points", Width: 12, Type: export.TypeNumber},
		{Key: "total_spent", Label: withCurrency("Total Dépensé", currency), Width: 22, Type: export.TypeNumber},
		{Key: "total_debt", Label: withCurrency("Dette", currency), Width: 18, Type: export.TypeNumber},
		{Key: "birthday", Label: "Anniversaire", Width: 16, Type: export.TypeDate},
		{Key: "notes", Label: "Notes", Width: 35},
	}

	vip := filter(prepared, isVIP)
	totalDebt := sum(prepared, "total_debt")
	totalRevenue := sum(prepared, "total_spent")

	sheets := []export.Sheet{
		{
			Name:    "Tous les Clients",
			Columns: columns,
			Rows:    prepared,
			Summary: []export.SummaryRow{
				{Label: "TOTAL CLIENTS", Value: len(prepared)},
				{Label: withCurrency("DETTE TOTALE", currency), Value: totalDebt},
				{Label: withCurrency("REVENUS GÉNÉRÉS", currency), Value: totalRevenue},
				{Label: "CLIENTS VIP (Or + Platine)", Value: len(vip)},
			},
		},
		{
			Name:    "Clients VIP",
			Columns: columns,
			Rows:    vip,
			Summary: []export.SummaryRow{
				{Label: "TOTAL VIP", Value: len(vip)},
				{Label: withCurrency("REVENUS VIP", currency), Value: sum(vip, "total_spent")},
			},
		},
	}

	sections := []export.Section{
		{
			Title: "Indicateurs Clés",
			KPIs: []export.KPICard{
				{Label: "Total Clients", Value: strconv.Itoa(len(prepared))},
				{Label: "CA Clients", Value: export.FormatMoney(totalRevenue, currency)},
				{Label: "Dette Totale", Value: export.FormatMoney(totalDebt, currency)},
				{Label: "Clients VIP", Value: strconv.Itoa(len(vip))},
			},
		},
		{Title: "Liste des Clients", Columns: columns[:8], Rows: prepared},
	}

	return newJob("CRM — Liste Clients", "Stockman_CRM", "", opts, sheets, "Rapport CRM Clients", sections)
}
