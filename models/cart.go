package models

import "time"

// Session correlates a cart with a client. It expires a fixed TTL after creation.
type Session struct {
	ID        string    `json:"id"`
	UserID    *int      `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CartLine holds the unit price captured when the product was first added.
type CartLine struct {
	ID            int       `json:"id"`
	SessionID     string    `json:"-"`
	ProductID     int       `json:"product_id"`
	VariantID     *int      `json:"variant_id,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     int64     `json:"unit_price"`
	LineTotal     int64     `json:"line_total"`
	ProductSKU    string    `json:"product_sku"`
	ProductSlug   string    `json:"product_slug"`
	ProductName   string    `json:"product_name"`
	ProductNameEN string    `json:"-"`
	ProductNameJA string    `json:"-"`
	VariantSKU    string    `json:"variant_sku,omitempty"`
	VariantName   string    `json:"variant_name,omitempty"`
	VariantNameEN string    `json:"-"`
	VariantNameJA string    `json:"-"`
	ImageURL      string    `json:"image_url"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (l *CartLine) Localize(lang string) {
	l.ProductName = pick(lang, l.ProductNameEN, l.ProductNameJA)
	if l.VariantID != nil {
		l.VariantName = pick(lang, l.VariantNameEN, l.VariantNameJA)
	}
}

// SKU is the variant SKU when the line has one, else the product SKU.
func (l *CartLine) SKU() string {
	if l.VariantSKU != "" {
		return l.VariantSKU
	}
	return l.ProductSKU
}

func SameVariant(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type CartTotals struct {
	ItemCount      int   `json:"item_count"`
	TotalQuantity  int   `json:"total_quantity"`
	Subtotal       int64 `json:"subtotal"`
	TaxAmount      int64 `json:"tax_amount"`
	ShippingAmount int64 `json:"shipping_amount"`
	DiscountAmount int64 `json:"discount_amount"`
	TotalAmount    int64 `json:"total_amount"`
}

type Cart struct {
	SessionToken string     `json:"session_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Items        []CartLine `json:"items"`
	CartTotals
}
