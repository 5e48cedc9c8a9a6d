package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

// prepare copies every record and lets derive add computed fields, leaving
// the caller's records untouched.
func prepare(rows []export.Record, derive func(src, out export.Record)) []export.Record {
	out := make([]export.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(export.Record, len(row)+4)
		for k, v := range row {
			rec[k] = v
		}
		derive(row, rec)
		out = append(out, rec)
	}
	return out
}

func filter(rows []export.Record, keep func(export.Record) bool) []export.Record {
	out := make([]export.Record, 0)
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// lookup resolves a dotted path such as "user.name"
func lookup(rec export.Record, path string) interface{} {
	var cur interface{} = map[string]interface{}(rec)
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case map[string]interface{}:
			cur = m[part]
		case export.Record:
			cur = m[part]
		default:
			return nil
		}
	}
	return cur
}

// num reads a numeric field, 0 when absent or malformed
func num(rec export.Record, key string) float64 {
	n, _ := export.ToNumber(lookup(rec, key))
	return n
}

// firstNumber returns the first non-zero numeric field among keys
func firstNumber(rec export.Record, keys ...string) float64 {
	for _, key := range keys {
		if n := num(rec, key); n != 0 {
			return n
		}
	}
	return 0
}

// firstValue returns the first field among keys holding a non-empty,
// non-zero value, or fallback
func firstValue(rec export.Record, fallback string, keys ...string) interface{} {
	for _, key := range keys {
		v := lookup(rec, key)
		switch s := v.(type) {
		case nil:
			continue
		case string:
			if s != "" {
				return s
			}
		case bool:
			if s {
				return s
			}
		default:
			if n, ok := export.ToNumber(v); ok && n == 0 {
				continue
			}
			return v
		}
	}
	return fallback
}

func text(rec export.Record, key string) string {
	if s, ok := lookup(rec, key).(string); ok {
		return s
	}
	return ""
}

func list(rec export.Record, key string) []export.Record {
	raw, ok := lookup(rec, key).([]interface{})
	if !ok {
		if typed, ok := lookup(rec, key).([]export.Record); ok {
			return typed
		}
		return nil
	}
	out := make([]export.Record, 0, len(raw))
	for _, item := range raw {
		switch m := item.(type) {
		case map[string]interface{}:
			out = append(out, export.Record(m))
		case export.Record:
			out = append(out, m)
		}
	}
	return out
}

// has reports whether key holds a list, even an empty one
func has(rec export.Record, key string) bool {
	switch lookup(rec, key).(type) {
	case []interface{}, []export.Record:
		return true
	}
	return false
}

// sum adds a numeric field over rows in decimal to keep money totals exact
func sum(rows []export.Record, key string) float64 {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(num(row, key)))
	}
	return total.InexactFloat64()
}

func withCurrency(label, currency string) string {
	return label + " (" + currency + ")"
}
