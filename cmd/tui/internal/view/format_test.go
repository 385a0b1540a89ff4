package view

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "dot separator", input: "12.50", want: "12.5"},
		{name: "comma separator", input: " 12,50 ", want: "12.5"},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParsePercent(t *testing.T) {
	got, err := parsePercent("80%")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("0.8")))

	_, err = parsePercent("0")
	assert.Error(t, err)

	_, err = parsePercent("101")
	assert.Error(t, err)
}

func TestBar(t *testing.T) {
	type testCase struct {
		name       string
		percent    int64
		wantFilled int
	}

	tests := []testCase{
		{name: "empty", percent: 0, wantFilled: 0},
		{name: "half", percent: 50, wantFilled: 5},
		{name: "over limit is capped", percent: 250, wantFilled: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bar(decimal.NewFromInt(tt.percent), 10)

			assert.Equal(t, tt.wantFilled, strings.Count(got, "█"))
			assert.Equal(t, 10-tt.wantFilled, strings.Count(got, "░"))
		})
	}
}

func TestScaled(t *testing.T) {
	assert.Equal(t, strings.Repeat(" ", trendWidth), scaled(decimal.NewFromInt(10), decimal.Zero))
	assert.Equal(t, trendWidth, strings.Count(scaled(decimal.NewFromInt(100), decimal.NewFromInt(100)), "▇"))
	assert.Equal(t, trendWidth/2, strings.Count(scaled(decimal.NewFromInt(50), decimal.NewFromInt(100)), "▇"))
}
