package models

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var statusProgression = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
}

func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	for _, st := range statusProgression {
		if st == s {
			return true
		}
	}
	return false
}

// Next returns the following step of the linear progression. Delivered and
// cancelled orders have no next step.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range statusProgression {
		if st == s && i+1 < len(statusProgression) {
			return statusProgression[i+1], true
		}
	}
	return "", false
}

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

type PaymentStatus string

const (
	PaymentCODPending PaymentStatus = "cod_pending"
	PaymentCompleted  PaymentStatus = "completed"
)

// InitialPaymentStatus: cash on delivery waits for the courier, the demo card
// path always succeeds.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentCashOnDelivery {
		return PaymentCODPending
	}
	return PaymentCompleted
}

type Address struct {
	FullName     string `json:"full_name" binding:"required,max=120"`
	PostalCode   string `json:"postal_code" binding:"required,max=16"`
	Prefecture   string `json:"prefecture" binding:"required,max=60"`
	City         string `json:"city" binding:"required,max=120"`
	AddressLine1 string `json:"address_line1" binding:"required,max=200"`
	AddressLine2 string `json:"address_line2" binding:"max=200"`
	Phone        string `json:"phone" binding:"max=32"`
}

type Order struct {
	ID              int           `json:"id"`
	OrderNumber     string        `json:"order_number"`
	UserID          *int          `json:"user_id,omitempty"`
	SessionID       string        `json:"-"`
	Email           string        `json:"email"`
	Language        string        `json:"language"`
	Status          OrderStatus   `json:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	Subtotal        int64         `json:"subtotal"`
	TaxAmount       int64         `json:"tax_amount"`
	ShippingAmount  int64         `json:"shipping_amount"`
	DiscountAmount  int64         `json:"discount_amount"`
	TotalAmount     int64         `json:"total_amount"`
	ShippingAddress Address       `json:"shipping_address"`
	BillingAddress  Address       `json:"billing_address"`
	Notes           string        `json:"notes"`
	Items           []OrderItem   `json:"items,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderItem is frozen at checkout; it never follows later catalog edits.
type OrderItem struct {
	ID          int    `json:"id"`
	OrderID     int    `json:"order_id"`
	ProductID   int    `json:"product_id"`
	VariantID   *int   `json:"variant_id,omitempty"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
	VariantName string `json:"variant_name,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
	// CartLineID is the cart line this item was copied from.
	CartLineID int `json:"-"`
}

type OrderFilter struct {
	Status string `form:"status" binding:"omitempty,order_status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
