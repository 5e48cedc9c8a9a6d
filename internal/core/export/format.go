package export

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DefaultCurrency is appended to monetary values when the caller gives none
	DefaultCurrency = "F"

	groupSeparator = '\u00a0'
	dateLayout     = "02/01/2006"
	timeLayout     = "15:04"
)

// exportLocale is fixed so files render the same on every machine.
var exportLocale = language.French

// FormatNumber groups thousands with a no-break space and uses a decimal
// comma, keeping at most three fraction digits.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	p := message.NewPrinter(exportLocale)
	s := p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))

	// CLDR releases disagree on the French group symbol; pin it to U+00A0
	// which every PDF core font encoding can draw.
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return groupSeparator
		}
		return r
	}, s)
}

// FormatMoney formats v followed by the currency label
func FormatMoney(v float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return FormatNumber(v) + " " + currency
}

// FormatDate renders t as DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateTime renders t as "DD/MM/YYYY à HH:MM"
func FormatDateTime(t time.Time) string {
	return t.Format(dateLayout) + " à " + t.Format(timeLayout)
}

// FormatISODate renders t as YYYY-MM-DD, used for file name suffixes
func FormatISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Percent returns part/whole*100 with one decimal and a trailing "%".
// A zero or negative whole yields "0%".
func Percent(part, whole float64) string {
	if whole <= 0 || math.IsNaN(part) || math.IsInf(part, 0) || math.IsInf(whole, 0) {
		return "0%"
	}
	pct := decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100))
	return pct.StringFixed(1) + "%"
}
