package export

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"small", 42, "42"},
		{"thousands", 1500, "1\u00a0500"},
		{"millions with fraction", 1234567.891, "1\u00a0234\u00a0567,891"},
		{"fraction", 2.5, "2,5"},
		{"nan", math.NaN(), "0"},
		{"inf", math.Inf(1), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1\u00a0500 F", FormatMoney(1500, ""))
	assert.Equal(t, "250 FCFA", FormatMoney(250, "FCFA"))
}

func TestFormatDates(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC)

	assert.Equal(t, "05/03/2024", FormatDate(ts))
	assert.Equal(t, "05/03/2024 à 09:07", FormatDateTime(ts))
	assert.Equal(t, "2024-03-05", FormatISODate(ts))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.3%", Percent(500, 1500))
	assert.Equal(t, "25.0%", Percent(25, 100))
	assert.Equal(t, "0%", Percent(10, 0))
	assert.Equal(t, "0%", Percent(10, -5))
	assert.Equal(t, "0%", Percent(math.NaN(), 10))
}
