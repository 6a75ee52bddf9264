package testutil

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"pc-store/models"
	"sync"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache is an in-memory product page cache.
type Cache struct {
	mu      sync.Mutex
	pages   map[string]*models.ProductPage
	Hits    int
	Flushes int
}

func NewCache() *Cache {
	return &Cache{pages: map[string]*models.ProductPage{}}
}

func (c *Cache) Get(ctx context.Context, key string) (*models.ProductPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page, ok := c.pages[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	c.Hits++
	return page, nil
}

func (c *Cache) Set(ctx context.Context, key string, page *models.ProductPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = page
	return nil
}

func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = map[string]*models.ProductPage{}
	c.Flushes++
	return nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}

// Mailer records confirmations; Err is returned from every send.
type Mailer struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, order.OrderNumber)
	return nil
}

type Event struct {
	Name        string
	OrderNumber string
	From, To    models.OrderStatus
}

type Events struct {
	mu        sync.Mutex
	Published []Event
	Err       error
}

func (e *Events) record(ev Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Published = append(e.Published, ev)
	return nil
}

func (e *Events) OrderCreated(ctx context.Context, order *models.Order) error {
	return e.record(Event{Name: "order.created", OrderNumber: order.OrderNumber, To: order.Status})
}

func (e *Events) OrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	return e.record(Event{Name: "order.status_changed", OrderNumber: order.OrderNumber, From: from, To: order.Status})
}

// Images pretends to upload files and remembers which ids are live.
type Images struct {
	mu      sync.Mutex
	n       int
	Live    map[string]bool
	Deleted []string
	Err     error
}

func NewImages() *Images {
	return &Images{Live: map[string]bool{}}
}

func (s *Images) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", "", s.Err
	}
	s.n++
	id := fmt.Sprintf("%s/%d-%s", folder, s.n, file.Filename)
	s.Live[id] = true
	return "https://img.test/" + id, id, nil
}

func (s *Images) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Live, id)
	s.Deleted = append(s.Deleted, id)
	return nil
}

// Google accepts the ID tokens registered in Tokens.
type Google struct {
	Tokens map[string]models.GoogleIdentity
}

func (g *Google) Verify(ctx context.Context, idToken string) (*models.GoogleIdentity, error) {
	identity, ok := g.Tokens[idToken]
	if !ok {
		return nil, errors.New("google: unknown token")
	}
	return &identity, nil
}
