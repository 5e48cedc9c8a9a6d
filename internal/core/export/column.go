package export

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	// SheetPlaceholder fills spreadsheet cells whose value is absent
	SheetPlaceholder = ""
	// DocumentPlaceholder fills document cells whose value is absent
	DocumentPlaceholder = "–"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// SheetValue renders a column of rec for a spreadsheet cell. Numbers stay
// numeric so formulas work on them. It never panics: a failing formatter or
// an unexpected value falls back to the raw value as a string.
func SheetValue(col Column, rec Record) (out interface{}) {
	raw := rec[col.Key]
	defer func() {
		if r := recover(); r != nil {
			out = fallback(raw, SheetPlaceholder)
		}
	}()

	if col.Format != nil {
		return formatted(col.Format(raw, rec), SheetPlaceholder)
	}
	if isAbsent(raw) {
		return SheetPlaceholder
	}

	switch col.Type {
	case TypeDate:
		if t, ok := ParseDate(raw); ok {
			return FormatDate(t)
		}
		return stringify(raw, SheetPlaceholder)
	case TypeNumber, TypeCurrency:
		if n, ok := ToNumber(raw); ok {
			return n
		}
		return stringify(raw, SheetPlaceholder)
	default:
		return stringify(raw, SheetPlaceholder)
	}
}

// DocumentValue renders a column of rec as document cell text. Numbers are
// grouped with FormatNumber. Like SheetValue it never panics.
func DocumentValue(col Column, rec Record) (out string) {
	raw := rec[col.Key]
	defer func() {
		if r := recover(); r != nil {
			out = fallback(raw, DocumentPlaceholder)
		}
	}()

	if col.Format != nil {
		return stringify(col.Format(raw, rec), DocumentPlaceholder)
	}
	if isAbsent(raw) {
		return DocumentPlaceholder
	}

	switch col.Type {
	case TypeDate:
		if t, ok := ParseDate(raw); ok {
			return FormatDate(t)
		}
	case TypeNumber, TypeCurrency:
		if n, ok := ToNumber(raw); ok {
			return FormatNumber(n)
		}
	}
	return stringify(raw, DocumentPlaceholder)
}

// maxEpochMillis bounds numeric timestamps to ±100,000,000 days around the epoch
const maxEpochMillis = 8.64e15

// ParseDate reads the date shapes the Stockman backend emits: ISO strings
// with or without a time part, time.Time values and epoch milliseconds.
// Zone-less strings are read as UTC.
func ParseDate(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, !d.IsZero()
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false
		}
		return *d, true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	if ms, ok := ToNumber(v); ok && math.Abs(ms) <= maxEpochMillis {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}

// ToNumber coerces v to a float64. Strings are trimmed; empty strings,
// booleans and non-finite values do not convert.
func ToNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// formatted keeps strings and numbers as returned by a formatter and turns
// anything else into a string.
func formatted(v interface{}, placeholder string) interface{} {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return stringify(n, placeholder)
		}
		return v
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return stringify(n, placeholder)
		}
		return v
	case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v
	}
	return stringify(v, placeholder)
}

func stringify(v interface{}, placeholder string) string {
	if isAbsent(v) {
		return placeholder
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case time.Time:
		return FormatDate(s)
	case map[string]interface{}, []interface{}, Record:
		if b, err := json.Marshal(s); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// fallback is used after a recovered panic, so it only relies on fmt which
// already guards against panicking String methods.
func fallback(v interface{}, placeholder string) string {
	if isAbsent(v) {
		return placeholder
	}
	return fmt.Sprint(v)
}
