package services

import (
	"pc-store/models"

	"github.com/shopspring/decimal"
)

const (
	FreeShippingThreshold int64 = 10000
	FlatShippingFee       int64 = 800
)

var taxRate = decimal.RequireFromString("0.10")

// CalculateTotals derives every cart or order amount from the lines alone.
// Shipping is free only when the subtotal is strictly above the threshold,
// so an empty cart still shows the flat fee.
func CalculateTotals(lines []models.CartLine) models.CartTotals {
	totals := models.CartTotals{ItemCount: len(lines)}

	for _, l := range lines {
		totals.Subtotal += l.UnitPrice * int64(l.Quantity)
		totals.TotalQuantity += l.Quantity
	}

	totals.TaxAmount = decimal.NewFromInt(totals.Subtotal).Mul(taxRate).Round(0).IntPart()

	if totals.Subtotal > FreeShippingThreshold {
		totals.ShippingAmount = 0
	} else {
		totals.ShippingAmount = FlatShippingFee
	}

	totals.DiscountAmount = 0
	totals.TotalAmount = totals.Subtotal + totals.TaxAmount + totals.ShippingAmount - totals.DiscountAmount
	return totals
}
