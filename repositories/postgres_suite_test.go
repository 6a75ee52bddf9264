package repositories_test

import (
	"context"
	"fmt"
	"pc-store/database"
	"pc-store/models"
	"pc-store/repositories"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("pc_store"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}
	return container, connStr, nil
}

type postgresSuite struct {
	suite.Suite

	container *postgres.PostgresContainer
	pool      *pgxpool.Pool

	users    *repositories.UserRepository
	products *repositories.ProductRepository
	sessions *repositories.SessionRepository
	carts    *repositories.CartRepository
	orders   *repositories.OrderRepository
	reviews  *repositories.ReviewRepository
	cats     *repositories.CategoryRepository
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(postgresSuite))
}

func (s *postgresSuite) SetupSuite() {
	ctx := s.T().Context()

	container, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)
	s.container = container

	s.Require().NoError(database.Migrate(connStr))

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	s.users = repositories.NewUserRepository(s.pool)
	s.products = repositories.NewProductRepository(s.pool)
	s.sessions = repositories.NewSessionRepository(s.pool)
	s.carts = repositories.NewCartRepository(s.pool)
	s.orders = repositories.NewOrderRepository(s.pool)
	s.reviews = repositories.NewReviewRepository(s.pool)
	s.cats = repositories.NewCategoryRepository(s.pool)
}

func (s *postgresSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *postgresSuite) productBySlug(ctx context.Context, slug string) *models.Product {
	p, err := s.products.FindBySlug(ctx, slug)
	s.Require().NoError(err)
	return p
}

func (s *postgresSuite) newUser(ctx context.Context) *models.User {
	u := &models.User{
		Email:        gofakeit.Email(),
		PasswordHash: "x",
		FullName:     gofakeit.Name(),
		Role:         models.RoleCustomer,
		Language:     "en",
	}
	s.Require().NoError(s.users.Create(ctx, u))
	return u
}

func (s *postgresSuite) TestUserEmailIsUnique() {
	ctx := s.T().Context()
	u := s.newUser(ctx)

	dup := &models.User{Email: u.Email, PasswordHash: "x", Role: models.RoleCustomer, Language: "en"}
	s.ErrorIs(s.users.Create(ctx, dup), repositories.ErrConflict)

	found, err := s.users.FindByEmail(ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
}

func (s *postgresSuite) TestCategoryFilterIncludesChildren() {
	ctx := s.T().Context()

	products, total, err := s.products.List(ctx, models.ProductFilter{CategorySlug: "storage", Page: 1, Limit: 12})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("SSD-990PRO-2T", products[0].SKU)
	s.Equal("nvme-ssd", products[0].CategorySlug)

	storage, err := s.cats.FindBySlug(ctx, "storage")
	s.Require().NoError(err)
	s.Equal(1, storage.ProductCount)
	s.Require().Len(storage.Children, 1)
	s.Equal("nvme-ssd", storage.Children[0].Slug)
}

func (s *postgresSuite) TestSearchAndSort() {
	ctx := s.T().Context()

	products, _, err := s.products.List(ctx, models.ProductFilter{Search: "corsair", Sort: models.SortPriceAsc, Page: 1, Limit: 12})
	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.Equal("MEM-VEN-32D5", products[0].SKU)
	s.Equal("PSU-RM850E", products[1].SKU)

	ja, _, err := s.products.List(ctx, models.ProductFilter{Search: "インテル", Page: 1, Limit: 12})
	s.Require().NoError(err)
	s.Require().Len(ja, 1)
	s.Equal("CPU-I5-14600K", ja[0].SKU)
}

func (s *postgresSuite) TestExpiredSessionIsNotFound() {
	ctx := s.T().Context()
	now := time.Now()

	active, err := s.sessions.Create(ctx, nil, now, time.Hour)
	s.Require().NoError(err)
	_, err = s.sessions.FindActive(ctx, active.ID, now)
	s.NoError(err)

	expired, err := s.sessions.Create(ctx, nil, now.Add(-2*time.Hour), time.Hour)
	s.Require().NoError(err)
	_, err = s.sessions.FindActive(ctx, expired.ID, now)
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *postgresSuite) TestCartIncrementKeepsSingleLine() {
	ctx := s.T().Context()
	sess, err := s.sessions.Create(ctx, nil, time.Now(), time.Hour)
	s.Require().NoError(err)
	cpu := s.productBySlug(ctx, "ryzen-7-7800x3d")

	line := &models.CartLine{SessionID: sess.ID, ProductID: cpu.ID, Quantity: 1, UnitPrice: cpu.Price}
	s.Require().NoError(s.carts.InsertLine(ctx, line))

	found, err := s.carts.FindLine(ctx, sess.ID, cpu.ID, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.carts.IncrementQuantity(ctx, found.ID, 2))

	lines, err := s.carts.Lines(ctx, sess.ID)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(3, lines[0].Quantity)
	s.Equal(cpu.Price*3, lines[0].LineTotal)
}

func (s *postgresSuite) TestConcurrentFirstAddsShareOneLine() {
	ctx := s.T().Context()
	sess, err := s.sessions.Create(ctx, nil, time.Now(), time.Hour)
	s.Require().NoError(err)
	cpu := s.productBySlug(ctx, "core-i5-14600k")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.carts.InsertLine(ctx, &models.CartLine{SessionID: sess.ID, ProductID: cpu.ID, Quantity: 2, UnitPrice: cpu.Price})
		}()
	}
	wg.Wait()
	for _, err := range errs {
		s.Require().NoError(err)
	}

	lines, err := s.carts.Lines(ctx, sess.ID)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(8, lines[0].Quantity)
}

func (s *postgresSuite) TestOrderSnapshotSurvivesProductEdit() {
	ctx := s.T().Context()
	sess, err := s.sessions.Create(ctx, nil, time.Now(), time.Hour)
	s.Require().NoError(err)
	cpu5 := s.productBySlug(ctx, "core-i5-14600k")

	line := &models.CartLine{SessionID: sess.ID, ProductID: cpu5.ID, Quantity: 2, UnitPrice: cpu5.Price}
	s.Require().NoError(s.carts.InsertLine(ctx, line))

	addr := models.Address{FullName: "Sato Hanako", PostalCode: "530-0001", Prefecture: "Osaka", City: "Kita", AddressLine1: "1-1 Umeda"}
	order := &models.Order{
		OrderNumber:     fmt.Sprintf("PC-TEST-%06d", gofakeit.Number(0, 999999)),
		SessionID:       sess.ID,
		Email:           gofakeit.Email(),
		Language:        "en",
		Status:          models.StatusPending,
		PaymentMethod:   models.PaymentCreditCard,
		PaymentStatus:   models.PaymentCompleted,
		Subtotal:        cpu5.Price * 2,
		ShippingAddress: addr,
		BillingAddress:  addr,
		Items: []models.OrderItem{{
			ProductID: cpu5.ID, ProductName: cpu5.NameEN, ProductSKU: cpu5.SKU,
			UnitPrice: cpu5.Price, Quantity: 2, LineTotal: cpu5.Price * 2, CartLineID: line.ID,
		}},
	}

	// Added after checkout read the cart.
	cpu := s.productBySlug(ctx, "ryzen-7-7800x3d")
	late := &models.CartLine{SessionID: sess.ID, ProductID: cpu.ID, Quantity: 1, UnitPrice: cpu.Price}
	s.Require().NoError(s.carts.InsertLine(ctx, late))
	s.Require().NoError(s.carts.IncrementQuantity(ctx, line.ID, 1))

	s.Require().NoError(s.orders.Create(ctx, order))

	lines, err := s.carts.Lines(ctx, sess.ID)
	s.Require().NoError(err)
	s.Require().Len(lines, 2, "only the ordered quantities leave the cart")
	byID := map[int]int{}
	for _, l := range lines {
		byID[l.ID] = l.Quantity
	}
	s.Equal(map[int]int{line.ID: 1, late.ID: 1}, byID)

	before, err := s.orders.FindByID(ctx, order.ID)
	s.Require().NoError(err)

	newPrice, newName := cpu5.Price+5000, "Intel Core i5-14600K (renamed)"
	s.Require().NoError(s.products.Update(ctx, cpu5.ID, models.ProductPatch{Price: &newPrice, NameEN: &newName}))

	after, err := s.orders.FindByID(ctx, order.ID)
	s.Require().NoError(err)
	if diff := cmp.Diff(before.Items, after.Items, cmpopts.EquateEmpty()); diff != "" {
		s.Failf("order lines changed after product edit", "(-before +after):\n%s", diff)
	}
	s.Equal(addr, after.ShippingAddress)

	dup := *order
	dup.ID = 0
	dup.Items = nil
	s.ErrorIs(s.orders.Create(ctx, &dup), repositories.ErrConflict)

	s.Require().NoError(s.orders.UpdateStatus(ctx, order.ID, models.StatusPending, models.StatusConfirmed))
	s.ErrorIs(s.orders.UpdateStatus(ctx, order.ID, models.StatusPending, models.StatusConfirmed), repositories.ErrConflict)
}

func (s *postgresSuite) TestReviewUpdatesRating() {
	ctx := s.T().Context()
	gpu := s.productBySlug(ctx, "geforce-rtx-4070-super")
	u1, u2 := s.newUser(ctx), s.newUser(ctx)

	s.Require().NoError(s.reviews.Create(ctx, &models.Review{ProductID: gpu.ID, UserID: u1.ID, Rating: 5, Title: "Great"}))
	s.Require().NoError(s.reviews.Create(ctx, &models.Review{ProductID: gpu.ID, UserID: u2.ID, Rating: 4}))
	s.ErrorIs(s.reviews.Create(ctx, &models.Review{ProductID: gpu.ID, UserID: u1.ID, Rating: 1}), repositories.ErrConflict)

	updated := s.productBySlug(ctx, "geforce-rtx-4070-super")
	s.Equal(2, updated.ReviewCount)
	s.InDelta(4.5, updated.RatingAvg, 0.001)

	list, total, err := s.reviews.List(ctx, gpu.ID, 1, 10)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(list, 2)
}

func (s *postgresSuite) TestAddImageFirstIsPrimary() {
	ctx := s.T().Context()
	mb := s.productBySlug(ctx, "tuf-gaming-b650-plus")

	first := &models.ProductImage{ProductID: mb.ID, URL: "https://img.example/1.jpg"}
	second := &models.ProductImage{ProductID: mb.ID, URL: "https://img.example/2.jpg"}
	s.Require().NoError(s.products.AddImage(ctx, first))
	s.Require().NoError(s.products.AddImage(ctx, second))
	s.True(first.IsPrimary)
	s.False(second.IsPrimary)

	s.Equal("https://img.example/1.jpg", s.productBySlug(ctx, "tuf-gaming-b650-plus").ImageURL)
	require.Len(s.T(), must(s.products.Images(ctx, mb.ID)), 2)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
