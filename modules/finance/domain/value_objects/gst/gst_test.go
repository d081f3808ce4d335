package gst_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/arkiflo/arkiflo/modules/finance/domain/value_objects/gst"
)

func TestAmount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		base string
		rate string
		want string
	}{
		{"1000", "18", "180"},
		{"999.99", "18", "180"},
		{"100", "5", "5"},
		{"33.33", "12", "4"},
		{"250", "28", "70"},
		{"1000", "0", "0"},
	}
	for _, tc := range cases {
		got := gst.Amount(decimal.RequireFromString(tc.base), decimal.RequireFromString(tc.rate))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"Amount(%s, %s) = %s, want %s", tc.base, tc.rate, got, tc.want)
	}
}

func TestGross(t *testing.T) {
	t.Parallel()
	got := gst.Gross(decimal.RequireFromString("1000"), decimal.RequireFromString("18"))
	assert.True(t, got.Equal(decimal.RequireFromString("1180")))
}

func TestValidRate(t *testing.T) {
	t.Parallel()
	for _, r := range []string{"0", "5", "12", "18", "28"} {
		assert.True(t, gst.ValidRate(decimal.RequireFromString(r)), r)
	}
	for _, r := range []string{"3", "15", "100", "-5"} {
		assert.False(t, gst.ValidRate(decimal.RequireFromString(r)), r)
	}
}
