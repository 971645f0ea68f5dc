package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArea(t *testing.T) {
	cases := []struct {
		dia  int
		want float64
	}{
		{10, 78.54},
		{16, 201.06},
		{20, 314.16},
		{25, 490.87},
		{32, 804.25},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Area(tc.dia), 0.01, "area of %dmm bar", tc.dia)
	}
}

func TestUnitWeight(t *testing.T) {
	// 16mm bar weighs about 1.58 kg/m
	assert.InDelta(t, 1.578, UnitWeight(16), 0.005)
}

func TestRequiredClearSpacing(t *testing.T) {
	// Small bar, small aggregate: the 25mm code floor governs
	assert.Equal(t, 25.0, RequiredClearSpacing(12, 10, 0))
	// Large bar governs over the floor
	assert.Equal(t, 32.0, RequiredClearSpacing(32, 10, 0))
	// 4/3 aggregate governs
	assert.InDelta(t, 33.33, RequiredClearSpacing(16, 25, 0), 0.01)
	// Configured minimum overrides everything
	assert.Equal(t, 50.0, RequiredClearSpacing(16, 10, 50))
}

func TestMaxBarsInWidth(t *testing.T) {
	// 230mm usable width, 25mm bars at 25mm spacing: 5 bars need
	// 5*25 + 4*25 = 225 <= 230
	assert.Equal(t, 5, MaxBarsInWidth(230, 25, 25))
	// Narrow beam cannot hold two large bars
	assert.Equal(t, 1, MaxBarsInWidth(70, 25, 25))
	assert.Equal(t, 0, MaxBarsInWidth(20, 25, 25))
}

func TestClearSpacing(t *testing.T) {
	// 3 bars of 20mm in 220mm: (220 - 60) / 2 = 80
	assert.Equal(t, 80.0, ClearSpacing(220, 20, 3))
}

func TestSpliceCount(t *testing.T) {
	assert.Equal(t, 0, SpliceCount(9000, 12000))
	assert.Equal(t, 1, SpliceCount(15000, 12000))
	assert.Equal(t, 2, SpliceCount(30000, 12000))
}
