package events

import (
	"pc-store/models"
	"time"

	"github.com/google/uuid"
)

const (
	Exchange = "pcstore.events"

	OrderCreatedRoutingKey       = "order.created.v1"
	OrderStatusChangedRoutingKey = "order.status_changed.v1"

	orderCreatedEventName       = "order.created"
	orderStatusChangedEventName = "order.status_changed"
)

// Envelope wraps every published payload.
type Envelope[T any] struct {
	EventID    string    `json:"event_id"`
	EventName  string    `json:"event_name"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

type OrderLine struct {
	ProductID int    `json:"product_id"`
	VariantID *int   `json:"variant_id,omitempty"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type OrderCreatedPayload struct {
	OrderID       int                  `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	UserID        *int                 `json:"user_id,omitempty"`
	Email         string               `json:"email"`
	Language      string               `json:"language"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	TotalAmount   int64                `json:"total_amount"`
	Items         []OrderLine          `json:"items"`
}

type OrderStatusChangedPayload struct {
	OrderID     int                `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	From        models.OrderStatus `json:"from"`
	To          models.OrderStatus `json:"to"`
}

func newEnvelope[T any](name string, now time.Time, payload T) Envelope[T] {
	return Envelope[T]{
		EventID:    uuid.NewString(),
		EventName:  name,
		OccurredAt: now.UTC(),
		Payload:    payload,
	}
}

func BuildOrderCreated(order *models.Order, now time.Time) Envelope[OrderCreatedPayload] {
	items := make([]OrderLine, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, OrderLine{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			SKU:       it.ProductSKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return newEnvelope(orderCreatedEventName, now, OrderCreatedPayload{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Email:         order.Email,
		Language:      order.Language,
		PaymentMethod: order.PaymentMethod,
		TotalAmount:   order.TotalAmount,
		Items:         items,
	})
}

func BuildOrderStatusChanged(order *models.Order, from models.OrderStatus, now time.Time) Envelope[OrderStatusChangedPayload] {
	return newEnvelope(orderStatusChangedEventName, now, OrderStatusChangedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        from,
		To:          order.Status,
	})
}
