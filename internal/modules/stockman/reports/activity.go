package reports

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

// Activity exports the audit log. Logs are expected newest first.
func Activity(logs []export.Record, opts Options) *export.Job {
	prepared := prepare(logs, func(l, out export.Record) {
		out["created_at"] = firstValue(l, "", "created_at", "timestamp")
		out["user_name"] = firstValue(l, export.DocumentPlaceholder, "user_name", "user.name", "user_email")
		out["description"] = firstValue(l, export.DocumentPlaceholder, "description", "details", "message")
	})

	columns := []export.Column{
		{Key: "created_at", Label: "Date / Heure", Width: 22, Type: export.TypeDate},
		{Key: "module", Label: "Module", Width: 16},
		{Key: "action", Label: "Action", Width: 28},
		{Key: "user_name", Label: "Utilisateur", Width: 24},
		{Key: "description", Label: "Détails", Width: 48},
	}

	sheets := []export.Sheet{
		{
			Name:    "Journal",
			Columns: columns,
			Rows:    prepared,
			Summary: []export.SummaryRow{
				{Label: "TOTAL ENTRÉES", Value: len(prepared)},
				{Label: "PÉRIODE", Value: ActivityPeriod(prepared)},
			},
		},
	}

	sections := []export.Section{
		{Title: "Journal d'Audit Complet", Columns: columns, Rows: prepared},
	}

	return newJob("Journal d'Activité", "Stockman_Activite", "", opts, sheets, "Journal d'Activité Système", sections)
}

// ActivityPeriod spans from the oldest entry (last) to the newest (first)
func ActivityPeriod(logs []export.Record) string {
	if len(logs) == 0 {
		return fmt.Sprintf("%s → %s", export.DocumentPlaceholder, export.DocumentPlaceholder)
	}
	return fmt.Sprintf("%s → %s", logDate(logs[len(logs)-1]), logDate(logs[0]))
}

func logDate(l export.Record) string {
	raw := l["created_at"]
	if t, ok := export.ParseDate(raw); ok {
		return export.FormatDate(t)
	}
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	return export.DocumentPlaceholder
}
