package services

import (
	"pc-store/models"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
)

func line(price int64, qty int) models.CartLine {
	return models.CartLine{UnitPrice: price, Quantity: qty, LineTotal: price * int64(qty)}
}

func TestCalculateTotalsExamples(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.CartLine
		want  models.CartTotals
	}{
		{
			name:  "subtotal at threshold pays shipping",
			lines: []models.CartLine{line(5000, 2)},
			want: models.CartTotals{
				ItemCount: 1, TotalQuantity: 2,
				Subtotal: 10000, TaxAmount: 1000, ShippingAmount: 800, TotalAmount: 11800,
			},
		},
		{
			name:  "subtotal above threshold ships free",
			lines: []models.CartLine{line(12000, 1)},
			want: models.CartTotals{
				ItemCount: 1, TotalQuantity: 1,
				Subtotal: 12000, TaxAmount: 1200, ShippingAmount: 0, TotalAmount: 13200,
			},
		},
		{
			name:  "empty cart",
			lines: nil,
			want:  models.CartTotals{ShippingAmount: 800, TotalAmount: 800},
		},
		{
			name:  "tax rounds half away from zero",
			lines: []models.CartLine{line(105, 1), line(100, 0)},
			want: models.CartTotals{
				ItemCount: 2, TotalQuantity: 1,
				Subtotal: 105, TaxAmount: 11, ShippingAmount: 800, TotalAmount: 916,
			},
		},
		{
			name:  "tax rounds down below half",
			lines: []models.CartLine{line(104, 1)},
			want: models.CartTotals{
				ItemCount: 1, TotalQuantity: 1,
				Subtotal: 104, TaxAmount: 10, ShippingAmount: 800, TotalAmount: 914,
			},
		},
		{
			name:  "several lines",
			lines: []models.CartLine{line(62800, 1), line(15800, 2)},
			want: models.CartTotals{
				ItemCount: 2, TotalQuantity: 3,
				Subtotal: 94400, TaxAmount: 9440, ShippingAmount: 0, TotalAmount: 103840,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotals(tt.lines))
		})
	}
}

func TestCalculateTotalsIdentity(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		n := faker.IntRange(0, 6)
		lines := make([]models.CartLine, n)
		var subtotal int64
		for j := range lines {
			lines[j] = line(int64(faker.IntRange(0, 300000)), faker.IntRange(1, 99))
			subtotal += lines[j].LineTotal
		}

		got := CalculateTotals(lines)
		assert.Equal(t, subtotal, got.Subtotal)
		assert.Equal(t, got.Subtotal+got.TaxAmount+got.ShippingAmount-got.DiscountAmount, got.TotalAmount)
		assert.Zero(t, got.DiscountAmount)
		if got.Subtotal > FreeShippingThreshold {
			assert.Zero(t, got.ShippingAmount)
		} else {
			assert.Equal(t, FlatShippingFee, got.ShippingAmount)
		}
		assert.InDelta(t, float64(got.Subtotal)*0.10, float64(got.TaxAmount), 0.5)
	}
}
