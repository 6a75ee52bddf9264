package services

import (
	"context"
	"mime/multipart"
	"pc-store/models"
	"time"
)

// The stores below are implemented by the pgx repositories and by the
// in-memory fakes in testutil.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	LinkGoogle(ctx context.Context, id int, googleID string) error
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, id int, role string) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
}

type ProductStore interface {
	List(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id int) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Images(ctx context.Context, productID int) ([]models.ProductImage, error)
	Variants(ctx context.Context, productID int, activeOnly bool) ([]models.ProductVariant, error)
	Create(ctx context.Context, in models.ProductInput) (int, error)
	Update(ctx context.Context, id int, patch models.ProductPatch) error
	Deactivate(ctx context.Context, id int) error
	AddImage(ctx context.Context, img *models.ProductImage) error
}

type ReviewStore interface {
	List(ctx context.Context, productID, page, limit int) ([]models.Review, int64, error)
	Create(ctx context.Context, review *models.Review) error
}

type SessionStore interface {
	Create(ctx context.Context, userID *int, now time.Time, ttl time.Duration) (*models.Session, error)
	FindActive(ctx context.Context, id string, now time.Time) (*models.Session, error)
	AttachUser(ctx context.Context, id string, userID int) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CartStore interface {
	Lines(ctx context.Context, sessionID string) ([]models.CartLine, error)
	FindLine(ctx context.Context, sessionID string, productID int, variantID *int) (*models.CartLine, error)
	FindLineByID(ctx context.Context, sessionID string, lineID int) (*models.CartLine, error)
	InsertLine(ctx context.Context, line *models.CartLine) error
	IncrementQuantity(ctx context.Context, lineID, n int) error
	SetQuantity(ctx context.Context, sessionID string, lineID, quantity int) error
	DeleteLine(ctx context.Context, sessionID string, lineID int) error
	Clear(ctx context.Context, sessionID string) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int) (*models.Order, error)
	ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int64, error)
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus) error
	SetStatus(ctx context.Context, id int, status models.OrderStatus) error
}

// ProductCache stores localized product list pages.
type ProductCache interface {
	Get(ctx context.Context, key string) (*models.ProductPage, error)
	Set(ctx context.Context, key string, page *models.ProductPage) error
	Invalidate(ctx context.Context) error
}

// ImageStore persists uploaded product images and returns (url, id).
type ImageStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, string, error)
	Delete(ctx context.Context, id string) error
}

// OrderMailer sends the localized order confirmation.
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

type EventPublisher interface {
	OrderCreated(ctx context.Context, order *models.Order) error
	OrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) error
}

// GoogleVerifier checks a Google ID token and returns the verified identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*models.GoogleIdentity, error)
}
