package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	d, err := FromString("123.45")
	require.NoError(t, err)
	assert.Equal(t, "123.45", d.StringFixed(2))

	_, err = FromString("not-a-number")
	assert.Error(t, err)
}

func TestRounding(t *testing.T) {
	cases := []struct {
		in    string
		cents string
		whole string
	}{
		{"2.344", "2.34", "2"},
		{"2.345", "2.35", "2"},
		{"1999.5", "1999.50", "2000"},
		{"-10.126", "-10.13", "-10"},
	}
	for _, c := range cases {
		d := decimal.RequireFromString(c.in)
		assert.Equal(t, c.cents, Cents(d).StringFixed(2), "cents(%s)", c.in)
		assert.Equal(t, c.whole, Whole(d).String(), "whole(%s)", c.in)
	}
}

func TestClampAndTake(t *testing.T) {
	assert.True(t, NonNegative(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, NonNegative(decimal.NewFromInt(5)).Equal(decimal.NewFromInt(5)))

	assert.True(t, Take(decimal.NewFromInt(100), decimal.NewFromInt(40)).Equal(decimal.NewFromInt(40)))
	assert.True(t, Take(decimal.NewFromInt(30), decimal.NewFromInt(40)).Equal(decimal.NewFromInt(30)))
	assert.True(t, Take(decimal.NewFromInt(-30), decimal.NewFromInt(40)).IsZero())
	assert.True(t, Take(decimal.NewFromInt(30), decimal.NewFromInt(-40)).IsZero())
}

func TestMinMaxSum(t *testing.T) {
	a, b := decimal.NewFromInt(3), decimal.NewFromInt(7)
	assert.True(t, Min(a, b).Equal(a))
	assert.True(t, Max(a, b).Equal(b))
	assert.True(t, Sum(a, b, a).Equal(decimal.NewFromInt(13)))
	assert.True(t, Sum().IsZero())
}

func TestPeriodConversions(t *testing.T) {
	m := decimal.NewFromInt(100)
	assert.Equal(t, "1200", Annual(m).String())
	assert.Equal(t, "100", Monthly(Annual(m)).String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1235", Format(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "-$20", Format(decimal.NewFromInt(-20)))
}
