package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		want string
		in   float64
	}{
		{name: "two decimals", in: 5.95, want: "5.95 €"},
		{name: "pads", in: 6, want: "6.00 €"},
		{name: "rounds half away from zero", in: 2.675, want: "2.68 €"},
		{name: "zero", in: 0, want: "0.00 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.in))
		})
	}
}

func TestFormatOptionalAmount(t *testing.T) {
	assert.Empty(t, FormatOptionalAmount(nil))
	assert.Equal(t, "10.98", FormatOptionalAmount(Float(10.98)))
}

func TestPerKilo(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		weight float64
		want   float64
		ok     bool
	}{
		{name: "half kilo", price: 5.95, weight: 0.5, want: 11.9, ok: true},
		{name: "rounded to cents", price: 4.99, weight: 0.45, want: 11.09, ok: true},
		{name: "unknown weight", price: 5.95, weight: 0},
		{name: "negative weight", price: 5.95, weight: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PerKilo(tt.price, tt.weight)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
