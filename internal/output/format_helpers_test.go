package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1234.57", FormatCurrency(decimal.NewFromFloat(1234.567)))
	assert.Equal(t, "-$12.50", FormatCurrency(decimal.NewFromFloat(-12.5)))
}

func TestFormatWholeCurrency(t *testing.T) {
	tests := map[string]string{
		"0":          "$0",
		"999.4":      "$999",
		"1000":       "$1,000",
		"1234567.89": "$1,234,568",
		"-2500000":   "-$2,500,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatWholeCurrency(decimal.RequireFromString(in)), in)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "12.35%", FormatPercentage(decimal.NewFromFloat(12.3456)))
}

func TestIntAndBoolToString(t *testing.T) {
	assert.Equal(t, "42", intToString(42))
	assert.Equal(t, "true", boolToString(true))
	assert.Equal(t, "false", boolToString(false))
}
