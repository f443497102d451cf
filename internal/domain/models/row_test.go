package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestTierPrice_Meaningful(t *testing.T) {
	assert.False(t, TierPrice{}.Meaningful(), "NULL не заполнен")

	zero := TierPrice{Price: decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}}
	assert.False(t, zero.Meaningful(), "ноль равнозначен незаполненному")

	negative := TierPrice{Price: decimal.NullDecimal{Decimal: decimal.NewFromInt(-10), Valid: true}}
	assert.False(t, negative.Meaningful())

	positive := TierPrice{Price: decimal.NullDecimal{Decimal: decimal.NewFromInt(500), Valid: true}}
	assert.True(t, positive.Meaningful())
}

func TestTierQuantity_Available(t *testing.T) {
	cases := []struct {
		name     string
		quantity *int
		reserve  *int
		want     int
		ok       bool
	}{
		{name: "нет наличия", quantity: nil, reserve: nil},
		{name: "нулевое наличие", quantity: intp(0)},
		{name: "отрицательное наличие", quantity: intp(-5)},
		{name: "наличие без резерва", quantity: intp(10), want: 10, ok: true},
		{name: "наличие за вычетом резерва", quantity: intp(10), reserve: intp(3), want: 7, ok: true},
		{name: "резерв равен наличию", quantity: intp(5), reserve: intp(5)},
		{name: "резерв больше наличия", quantity: intp(5), reserve: intp(8)},
		{name: "отрицательный резерв по модулю", quantity: intp(10), reserve: intp(-4), want: 6, ok: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TierQuantity{Quantity: tc.quantity, Reserve: tc.reserve}.Available()

			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
