package testutil

import (
	"context"
	"fmt"
	"pc-store/models"
	"pc-store/repositories"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Sessions struct{ db *DB }

func (s *Sessions) Create(ctx context.Context, userID *int, now time.Time, ttl time.Duration) (*models.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	session := &models.Session{ID: uuid.NewString(), UserID: userID, CreatedAt: now, ExpiresAt: now.Add(ttl)}
	cp := *session
	s.db.sessions[session.ID] = &cp
	return session, nil
}

func (s *Sessions) FindActive(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	session, ok := s.db.sessions[id]
	if !ok || session.Expired(now) {
		return nil, notFound("sessions.FindActive")
	}
	cp := *session
	return &cp, nil
}

func (s *Sessions) AttachUser(ctx context.Context, id string, userID int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if session, ok := s.db.sessions[id]; ok && session.UserID == nil {
		session.UserID = &userID
	}
	return nil
}

func (s *Sessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, session := range s.db.sessions {
		if session.Expired(now) {
			delete(s.db.sessions, id)
			for lineID, l := range s.db.lines {
				if l.SessionID == id {
					delete(s.db.lines, lineID)
				}
			}
			n++
		}
	}
	return n, nil
}

type Carts struct{ db *DB }

// line joins a stored cart line with its product and variant. Callers hold the lock.
func (s *Carts) line(l *models.CartLine) models.CartLine {
	cp := *l
	if p, ok := s.db.products[l.ProductID]; ok {
		cp.ProductSKU, cp.ProductSlug = p.SKU, p.Slug
		cp.ProductNameEN, cp.ProductNameJA = p.NameEN, p.NameJA
		cp.ImageURL = p.ImageURL
		cp.Stock = p.Stock
	}
	if l.VariantID != nil {
		if v, ok := s.db.variants[*l.VariantID]; ok {
			cp.VariantSKU = v.SKU
			cp.VariantNameEN, cp.VariantNameJA = v.NameEN, v.NameJA
			cp.Stock = v.Stock
		}
	}
	cp.LineTotal = cp.UnitPrice * int64(cp.Quantity)
	return cp
}

func (s *Carts) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.CartLine{}
	for _, l := range s.db.lines {
		if l.SessionID == sessionID {
			out = append(out, s.line(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Carts) FindLine(ctx context.Context, sessionID string, productID int, variantID *int) (*models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, l := range s.db.lines {
		if l.SessionID == sessionID && l.ProductID == productID && models.SameVariant(l.VariantID, variantID) {
			cp := s.line(l)
			return &cp, nil
		}
	}
	return nil, notFound("cart.FindLine")
}

func (s *Carts) FindLineByID(ctx context.Context, sessionID string, lineID int) (*models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.lines[lineID]
	if !ok || l.SessionID != sessionID {
		return nil, notFound("cart.FindLineByID")
	}
	cp := s.line(l)
	return &cp, nil
}

func (s *Carts) InsertLine(ctx context.Context, line *models.CartLine) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, l := range s.db.lines {
		if l.SessionID == line.SessionID && l.ProductID == line.ProductID && models.SameVariant(l.VariantID, line.VariantID) {
			l.Quantity = min(l.Quantity+line.Quantity, 99)
			l.UpdatedAt = time.Now()
			line.ID, line.Quantity, line.UnitPrice = l.ID, l.Quantity, l.UnitPrice
			line.CreatedAt, line.UpdatedAt = l.CreatedAt, l.UpdatedAt
			return nil
		}
	}
	line.ID = s.db.id()
	line.CreatedAt = time.Now()
	line.UpdatedAt = line.CreatedAt
	cp := *line
	s.db.lines[line.ID] = &cp
	return nil
}

func (s *Carts) IncrementQuantity(ctx context.Context, lineID, n int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.lines[lineID]
	if !ok {
		return notFound("cart.IncrementQuantity")
	}
	l.Quantity += n
	return nil
}

func (s *Carts) SetQuantity(ctx context.Context, sessionID string, lineID, quantity int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.lines[lineID]
	if !ok || l.SessionID != sessionID {
		return notFound("cart.SetQuantity")
	}
	l.Quantity = quantity
	return nil
}

func (s *Carts) DeleteLine(ctx context.Context, sessionID string, lineID int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.lines[lineID]
	if !ok || l.SessionID != sessionID {
		return notFound("cart.DeleteLine")
	}
	delete(s.db.lines, lineID)
	return nil
}

func (s *Carts) Clear(ctx context.Context, sessionID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, l := range s.db.lines {
		if l.SessionID == sessionID {
			delete(s.db.lines, id)
		}
	}
	return nil
}

type Orders struct{ db *DB }

func (s *Orders) Create(ctx context.Context, order *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailOrderCreate != nil {
		return s.db.FailOrderCreate
	}
	for _, o := range s.db.orders {
		if o.OrderNumber == order.OrderNumber {
			return fmt.Errorf("orders.Create: %w", repositories.ErrConflict)
		}
	}

	order.ID = s.db.id()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = s.db.id()
		order.Items[i].OrderID = order.ID
	}
	s.db.orders[order.ID] = copyOrder(order)

	for _, it := range order.Items {
		l, ok := s.db.lines[it.CartLineID]
		if !ok || l.SessionID != order.SessionID {
			continue
		}
		if l.Quantity <= it.Quantity {
			delete(s.db.lines, it.CartLineID)
		} else {
			l.Quantity -= it.Quantity
		}
	}
	return nil
}

func (s *Orders) FindByID(ctx context.Context, id int) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return nil, notFound("orders.FindByID")
	}
	return copyOrder(o), nil
}

func (s *Orders) list(match func(*models.Order) bool, page, limit int) ([]models.Order, int64) {
	all := []models.Order{}
	for _, o := range s.db.orders {
		if match(o) {
			cp := copyOrder(o)
			cp.Items = nil
			all = append(all, *cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, page, limit), int64(len(all))
}

func (s *Orders) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	orders, total := s.list(func(o *models.Order) bool { return o.UserID != nil && *o.UserID == userID }, page, limit)
	return orders, total, nil
}

func (s *Orders) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	orders, total := s.list(func(o *models.Order) bool { return f.Status == "" || string(o.Status) == f.Status }, f.Page, f.Limit)
	return orders, total, nil
}

func (s *Orders) UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok || o.Status != from {
		return fmt.Errorf("orders.UpdateStatus: %w", repositories.ErrConflict)
	}
	o.Status = to
	return nil
}

func (s *Orders) SetStatus(ctx context.Context, id int, status models.OrderStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return notFound("orders.SetStatus")
	}
	o.Status = status
	return nil
}
