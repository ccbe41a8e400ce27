package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRMDFactor(t *testing.T) {
	tests := []struct {
		age      int
		expected string
	}{
		{60, "0"},
		{72, "0"},
		{73, "26.5"},
		{75, "24.6"},
		{90, "12.2"},
		{119, "2.3"},
		{120, "2"},
		{125, "2"},
	}
	for _, tt := range tests {
		factor := RMDFactor(tt.age)
		assert.True(t, factor.Equal(d(tt.expected)), "age %d: expected %s, got %s", tt.age, tt.expected, factor)
	}
}

func TestRMDFactorUntabulatedAgeUsesFormula(t *testing.T) {
	sparse := map[int]float64{73: 26.5}
	assert.True(t, rmdFactorFrom(sparse, 73).Equal(d("26.5")))
	assert.True(t, rmdFactorFrom(sparse, 80).Equal(d("19.4")))
	assert.True(t, rmdFactorFrom(sparse, 100).Equal(d("-0.6")), "formula is applied as-is")
	assert.True(t, rmdFactorFrom(sparse, 121).Equal(d("2")))
}

func TestCalculateRMD(t *testing.T) {
	assert.True(t, CalculateRMD(d("265000"), 73).Equal(d("10000")))
	assert.True(t, CalculateRMD(d("265000"), 72).IsZero())
	assert.True(t, CalculateRMD(decimal.Zero, 80).IsZero())
	assert.True(t, CalculateRMD(d("-1000"), 80).IsZero())
	assert.True(t, CalculateRMD(d("10000"), 120).Equal(d("5000")))
}
