package services

import (
	"context"
	"errors"
	"log"
	"pc-store/models"
	"pc-store/repositories"
	"pc-store/utils"
	"strings"
	"time"
)

type OrderService struct {
	orders OrderStore
	carts  *CartService
	mailer OrderMailer
	events EventPublisher
	now    func() time.Time
}

// NewOrderService builds the service; mailer and events may be nil.
func NewOrderService(orders OrderStore, carts *CartService, mailer OrderMailer, events EventPublisher) *OrderService {
	return &OrderService{orders: orders, carts: carts, mailer: mailer, events: events, now: time.Now}
}

func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Create turns the viewer's cart into an order. The order, its lines and the
// consumed cart quantities are committed together; e-mail and events follow the commit
// and only log their failures.
func (s *OrderService) Create(ctx context.Context, viewer models.Viewer, req models.CreateOrderRequest, lang string) (*models.Order, error) {
	session, err := s.carts.activeSession(ctx, viewer.SessionToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrCartEmpty
	}

	lines, err := s.carts.carts.Lines(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	email := strings.TrimSpace(req.Email)
	if email == "" && viewer.User != nil {
		email = viewer.User.Email
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	totals := CalculateTotals(lines)
	now := s.now()

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		l.Localize(lang)
		items = append(items, models.OrderItem{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			ProductSKU:  l.SKU(),
			VariantName: l.VariantName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			LineTotal:   l.UnitPrice * int64(l.Quantity),
			CartLineID:  l.ID,
		})
	}

	order := &models.Order{
		OrderNumber:     utils.GenerateOrderNumber(now),
		UserID:          viewer.UserID(),
		SessionID:       session.ID,
		Email:           email,
		Language:        lang,
		Status:          models.StatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentMethod.InitialPaymentStatus(),
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		ShippingAmount:  totals.ShippingAmount,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           items,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrOrderNumberTaken
		}
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(ctx, order); err != nil {
			log.Printf("order %s: confirmation e-mail failed: %v", order.OrderNumber, err)
		}
	}
	if s.events != nil {
		if err := s.events.OrderCreated(ctx, order); err != nil {
			log.Printf("order %s: publish order.created failed: %v", order.OrderNumber, err)
		}
	}
	return order, nil
}

func canView(order *models.Order, viewer models.Viewer) bool {
	if viewer.IsAdmin() {
		return true
	}
	if viewer.User != nil && order.UserID != nil && *order.UserID == viewer.User.UserID {
		return true
	}
	return viewer.SessionToken != "" && order.SessionID == viewer.SessionToken
}

func (s *OrderService) find(ctx context.Context, id int) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// Get hides orders the viewer may not see behind ErrOrderNotFound.
func (s *OrderService) Get(ctx context.Context, id int, viewer models.Viewer) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(order, viewer) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID, page, limit int) ([]models.Order, *models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit, models.DefaultPageLimit)
	orders, total, err := s.orders.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return orders, models.NewPagination(page, limit, total), nil
}

// Advance moves the order exactly one step along
// pending → confirmed → processing → shipped → delivered.
func (s *OrderService) Advance(ctx context.Context, id int, viewer models.Viewer) (*models.Order, error) {
	order, err := s.Get(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	from := order.Status
	next, ok := from.Next()
	if !ok {
		return nil, ErrOrderFinalStatus
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, from, next); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrStatusChanged
		}
		return nil, err
	}
	order.Status = next
	order.UpdatedAt = s.now()

	s.publishStatusChange(ctx, order, from)
	return order, nil
}

func (s *OrderService) publishStatusChange(ctx context.Context, order *models.Order, from models.OrderStatus) {
	if s.events == nil {
		return
	}
	if err := s.events.OrderStatusChanged(ctx, order, from); err != nil {
		log.Printf("order %s: publish order.status_changed failed: %v", order.OrderNumber, err)
	}
}

func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, *models.Pagination, error) {
	if filter.Status != "" && !models.OrderStatus(filter.Status).Valid() {
		return nil, nil, ErrInvalidStatus
	}
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit, models.DefaultPageLimit)
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return orders, models.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *OrderService) AdminGet(ctx context.Context, id int) (*models.Order, error) {
	return s.find(ctx, id)
}

// SetStatus lets an admin put the order in any valid status, cancelled included.
func (s *OrderService) SetStatus(ctx context.Context, id int, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if from == status {
		return order, nil
	}

	if err := s.orders.SetStatus(ctx, order.ID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = s.now()

	s.publishStatusChange(ctx, order, from)
	return order, nil
}
