// Package testutil provides in-memory stand-ins for the Postgres stores and
// the outbound integrations, for service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"pc-store/models"
	"pc-store/repositories"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DB is a tiny in-memory database shared by the store fakes.
type DB struct {
	mu sync.Mutex

	nextID     int
	users      map[int]*models.User
	categories map[int]*models.Category
	brands     map[int]*models.Brand
	products   map[int]*models.Product
	variants   map[int]*models.ProductVariant
	images     map[int]*models.ProductImage
	reviews    map[int]*models.Review
	sessions   map[string]*models.Session
	lines      map[int]*models.CartLine
	orders     map[int]*models.Order

	// FailOrderCreate, when set, is returned by Orders().Create before any change.
	FailOrderCreate error
}

func NewDB() *DB {
	return &DB{
		users:      map[int]*models.User{},
		categories: map[int]*models.Category{},
		brands:     map[int]*models.Brand{},
		products:   map[int]*models.Product{},
		variants:   map[int]*models.ProductVariant{},
		images:     map[int]*models.ProductImage{},
		reviews:    map[int]*models.Review{},
		sessions:   map[string]*models.Session{},
		lines:      map[int]*models.CartLine{},
		orders:     map[int]*models.Order{},
	}
}

func (db *DB) id() int {
	db.nextID++
	return db.nextID
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
}

// AddCategory seeds a category and returns its id.
func (db *DB) AddCategory(c models.Category) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	c.ID = db.id()
	db.categories[c.ID] = &c
	return c.ID
}

func (db *DB) AddBrand(b models.Brand) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	b.ID = db.id()
	db.brands[b.ID] = &b
	return b.ID
}

// AddProduct seeds a product; a zero CategoryID gets a fresh category.
func (db *DB) AddProduct(p models.Product) int {
	if p.CategoryID == 0 {
		p.CategoryID = db.AddCategory(models.Category{Slug: "misc", NameEN: "Misc"})
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	p.ID = db.id()
	if p.Slug == "" {
		p.Slug = strings.ToLower(p.SKU)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	db.products[p.ID] = &p
	return p.ID
}

func (db *DB) AddVariant(v models.ProductVariant) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	v.ID = db.id()
	db.variants[v.ID] = &v
	return v.ID
}

func (db *DB) AddUser(u models.User) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	u.ID = db.id()
	u.Email = strings.ToLower(u.Email)
	db.users[u.ID] = &u
	return u.ID
}

// AddSession seeds a session with explicit timestamps.
func (db *DB) AddSession(s models.Session) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	db.sessions[s.ID] = &s
	return s.ID
}

// Order returns a copy of the stored order, for assertions.
func (db *DB) Order(id int) (*models.Order, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	if !ok {
		return nil, false
	}
	return copyOrder(o), true
}

func (db *DB) LineCount(sessionID string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, l := range db.lines {
		if l.SessionID == sessionID {
			n++
		}
	}
	return n
}

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}

func (db *DB) Users() *Users           { return &Users{db} }
func (db *DB) Categories() *Categories { return &Categories{db} }
func (db *DB) Products() *Products     { return &Products{db: db} }
func (db *DB) Reviews() *Reviews       { return &Reviews{db} }
func (db *DB) Sessions() *Sessions     { return &Sessions{db} }
func (db *DB) Carts() *Carts           { return &Carts{db} }
func (db *DB) Orders() *Orders         { return &Orders{db} }

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if page < 1 || start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type Users struct{ db *DB }

func (s *Users) Create(ctx context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range s.db.users {
		if u.Email == user.Email {
			return fmt.Errorf("users.Create: %w", repositories.ErrConflict)
		}
	}
	user.ID = s.db.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	s.db.users[user.ID] = &cp
	return nil
}

func (s *Users) find(match func(*models.User) bool) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("users.find")
}

func (s *Users) FindByID(ctx context.Context, id int) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s *Users) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (s *Users) LinkGoogle(ctx context.Context, id int, googleID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return notFound("users.LinkGoogle")
	}
	u.GoogleID = &googleID
	return nil
}

func (s *Users) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u, ok := s.db.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (s *Users) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	all := []models.User{}
	for _, u := range s.db.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page, limit), int64(len(all)), nil
}

func (s *Users) UpdateRole(ctx context.Context, id int, role string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return notFound("users.UpdateRole")
	}
	u.Role = role
	return nil
}

type Categories struct{ db *DB }

func (s *Categories) List(ctx context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	roots := []models.Category{}
	for _, c := range s.db.categories {
		if c.ParentID == nil {
			cp := *c
			cp.Children = s.children(c.ID)
			roots = append(roots, cp)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })
	return roots, nil
}

func (s *Categories) children(parentID int) []models.Category {
	out := []models.Category{}
	for _, c := range s.db.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Categories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.categories {
		if c.Slug == slug {
			cp := *c
			cp.Children = s.children(c.ID)
			return &cp, nil
		}
	}
	return nil, notFound("categories.FindBySlug")
}

func (s *Categories) ListBrands(ctx context.Context) ([]models.Brand, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Brand{}
	for _, b := range s.db.brands {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
