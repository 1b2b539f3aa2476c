package nasr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDMSToDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"north", "40-26-46.302N", 40.446195},
		{"west", "073-59-11.123W", -73.98642306},
		{"south", "33-56-49.990S", -33.94721944},
		{"east", "151-10-38.100E", 151.17725},
		{"lowercase hemisphere", "40-26-46.302n", 40.446195},
		{"zero", "00-00-00.000N", 0},
		{"garbage", "garbage", 0},
		{"empty", "", 0},
		{"integer seconds", "40-26-46N", 0},
		{"missing hemisphere", "40-26-46.302", 0},
		{"trailing text", "40-26-46.302NX", 0},
		{"leading space", " 40-26-46.302N", 0},
		{"decimal form", "40.446195", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DMSToDecimal(tt.in), 1e-9)
		})
	}
}

func TestDMSToDecimal_Deterministic(t *testing.T) {
	first := DMSToDecimal("073-59-11.123W")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DMSToDecimal("073-59-11.123W"))
	}
}

func TestDMSToDecimal_RoundsToEightPlaces(t *testing.T) {
	got := DMSToDecimal("00-00-00.001N")
	// 0.001/3600 = 2.777...e-7
	assert.Equal(t, 2.8e-7, got)
}
