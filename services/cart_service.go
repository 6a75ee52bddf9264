package services

import (
	"context"
	"errors"
	"pc-store/models"
	"pc-store/repositories"
	"time"
)

const MaxLineQuantity = 99

type CartService struct {
	sessions SessionStore
	carts    CartStore
	products ProductStore
	ttl      time.Duration
	now      func() time.Time
}

func NewCartService(sessions SessionStore, carts CartStore, products ProductStore, ttl time.Duration) *CartService {
	return &CartService{sessions: sessions, carts: carts, products: products, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *CartService) WithClock(now func() time.Time) *CartService {
	s.now = now
	return s
}

// activeSession returns nil without error when the token is empty, unknown
// or expired.
func (s *CartService) activeSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessions.FindActive(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// EnsureSession returns the active session for token or starts a new one.
// An authenticated caller is linked to the session.
func (s *CartService) EnsureSession(ctx context.Context, token string, userID *int) (*models.Session, error) {
	session, err := s.activeSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return s.sessions.Create(ctx, userID, s.now(), s.ttl)
	}
	if userID != nil && session.UserID == nil {
		if err := s.sessions.AttachUser(ctx, session.ID, *userID); err != nil {
			return nil, err
		}
		session.UserID = userID
	}
	return session, nil
}

func (s *CartService) build(ctx context.Context, session *models.Session, lang string) (*models.Cart, error) {
	if session == nil {
		return &models.Cart{Items: []models.CartLine{}, CartTotals: CalculateTotals(nil)}, nil
	}
	lines, err := s.carts.Lines(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].Localize(lang)
	}
	expiresAt := session.ExpiresAt
	return &models.Cart{
		SessionToken: session.ID,
		ExpiresAt:    &expiresAt,
		Items:        lines,
		CartTotals:   CalculateTotals(lines),
	}, nil
}

// Get never creates a session; without one the cart is empty and carries no token.
func (s *CartService) Get(ctx context.Context, token, lang string) (*models.Cart, error) {
	session, err := s.activeSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, session, lang)
}

func (s *CartService) AddItem(ctx context.Context, token string, userID *int, req models.AddCartItemRequest, lang string) (*models.Cart, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}

	unitPrice, stock := product.Price, product.Stock
	if req.VariantID != nil {
		variants, err := s.products.Variants(ctx, product.ID, true)
		if err != nil {
			return nil, err
		}
		product.Variants = variants
		variant, ok := product.Variant(*req.VariantID)
		if !ok {
			return nil, ErrVariantNotFound
		}
		unitPrice, stock = variant.Price, variant.Stock
	}

	session, err := s.EnsureSession(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.carts.FindLine(ctx, session.ID, product.ID, req.VariantID)
	switch {
	case err == nil:
		total := existing.Quantity + quantity
		if total > stock {
			return nil, ErrInsufficientStock
		}
		if total > MaxLineQuantity {
			return nil, ErrInvalidQuantity
		}
		if err := s.carts.IncrementQuantity(ctx, existing.ID, quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, repositories.ErrNotFound):
		if quantity > stock {
			return nil, ErrInsufficientStock
		}
		line := &models.CartLine{
			SessionID: session.ID,
			ProductID: product.ID,
			VariantID: req.VariantID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		}
		if err := s.carts.InsertLine(ctx, line); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.build(ctx, session, lang)
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, token string, lineID, quantity int, lang string) (*models.Cart, error) {
	if quantity < 0 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, token, lineID, lang)
	}

	session, err := s.activeSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrCartItemNotFound
	}

	line, err := s.carts.FindLineByID(ctx, session.ID, lineID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if quantity > line.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.carts.SetQuantity(ctx, session.ID, lineID, quantity); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return s.build(ctx, session, lang)
}

func (s *CartService) RemoveItem(ctx context.Context, token string, lineID int, lang string) (*models.Cart, error) {
	session, err := s.activeSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrCartItemNotFound
	}

	if err := s.carts.DeleteLine(ctx, session.ID, lineID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return s.build(ctx, session, lang)
}

func (s *CartService) Clear(ctx context.Context, token string, userID *int, lang string) (*models.Cart, error) {
	session, err := s.EnsureSession(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, session.ID); err != nil {
		return nil, err
	}
	return s.build(ctx, session, lang)
}

// PurgeExpired deletes sessions whose TTL has passed.
func (s *CartService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}
