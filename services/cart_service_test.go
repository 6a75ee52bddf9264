package services_test

import (
	"context"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/services"
	"pc-store/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type cartFixture struct {
	db      *testutil.DB
	carts   *services.CartService
	now     time.Time
	cpu     int
	memory  int
	black   int
	retired int
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	f := &cartFixture{db: testutil.NewDB(), now: clock}

	f.cpu = f.db.AddProduct(models.Product{
		SKU: "CPU-R7-7800X3D", NameEN: "Ryzen 7 7800X3D", NameJA: "Ryzen 7 7800X3D プロセッサー",
		Price: 62800, Stock: 5, IsActive: true,
	})
	f.memory = f.db.AddProduct(models.Product{
		SKU: "MEM-VEN-32D5", NameEN: "Vengeance DDR5 32GB", NameJA: "Vengeance DDR5 32GB メモリ",
		Price: 15800, Stock: 40, IsActive: true,
	})
	f.black = f.db.AddVariant(models.ProductVariant{
		ProductID: f.memory, SKU: "MEM-VEN-32D5-BLK", NameEN: "Black", NameJA: "ブラック",
		Price: 15800, Stock: 3, IsActive: true,
	})
	f.retired = f.db.AddProduct(models.Product{SKU: "GPU-OLD", NameEN: "Retired card", Price: 1000, Stock: 10})

	f.carts = services.NewCartService(f.db.Sessions(), f.db.Carts(), f.db.Products(), 7*24*time.Hour).
		WithClock(func() time.Time { return f.now })
	return f
}

func TestCartAddCreatesSession(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.Japanese)
	require.NoError(t, err)

	assert.NotEmpty(t, cart.SessionToken)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "Ryzen 7 7800X3D プロセッサー", cart.Items[0].ProductName)
	assert.Equal(t, int64(62800), cart.Subtotal)
	assert.Equal(t, int64(0), cart.ShippingAmount)
	assert.Equal(t, int64(62800+6280), cart.TotalAmount)
	assert.Equal(t, f.now.Add(7*24*time.Hour), *cart.ExpiresAt)
}

func TestCartAddSameProductIncrementsLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu, Quantity: 2}, i18n.English)
	require.NoError(t, err)
	token := cart.SessionToken

	cart, err = f.carts.AddItem(ctx, token, nil, models.AddCartItemRequest{ProductID: f.cpu, Quantity: 1}, i18n.English)
	require.NoError(t, err)

	assert.Equal(t, token, cart.SessionToken)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 1, f.db.LineCount(token))
}

func TestCartVariantIsSeparateLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.memory}, i18n.English)
	require.NoError(t, err)
	cart, err = f.carts.AddItem(ctx, cart.SessionToken, nil, models.AddCartItemRequest{ProductID: f.memory, VariantID: &f.black}, i18n.Japanese)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "ブラック", cart.Items[1].VariantName)
	assert.Equal(t, "MEM-VEN-32D5-BLK", cart.Items[1].VariantSKU)
}

func TestCartAddValidation(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	missing := 999

	tests := []struct {
		name string
		req  models.AddCartItemRequest
		want error
	}{
		{"unknown product", models.AddCartItemRequest{ProductID: 12345}, services.ErrProductNotFound},
		{"inactive product", models.AddCartItemRequest{ProductID: f.retired}, services.ErrProductInactive},
		{"unknown variant", models.AddCartItemRequest{ProductID: f.memory, VariantID: &missing}, services.ErrVariantNotFound},
		{"variant of other product", models.AddCartItemRequest{ProductID: f.cpu, VariantID: &f.black}, services.ErrVariantNotFound},
		{"more than stock", models.AddCartItemRequest{ProductID: f.cpu, Quantity: 6}, services.ErrInsufficientStock},
		{"more than variant stock", models.AddCartItemRequest{ProductID: f.memory, VariantID: &f.black, Quantity: 4}, services.ErrInsufficientStock},
		{"too many", models.AddCartItemRequest{ProductID: f.cpu, Quantity: 100}, services.ErrInvalidQuantity},
		{"negative", models.AddCartItemRequest{ProductID: f.cpu, Quantity: -1}, services.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.carts.AddItem(ctx, "", nil, tt.req, i18n.English)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCartIncrementChecksCumulativeStock(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu, Quantity: 4}, i18n.English)
	require.NoError(t, err)

	_, err = f.carts.AddItem(ctx, cart.SessionToken, nil, models.AddCartItemRequest{ProductID: f.cpu, Quantity: 2}, i18n.English)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	cart, err = f.carts.Get(ctx, cart.SessionToken, i18n.English)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestCartExpiredSessionStartsFresh(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)
	old := cart.SessionToken

	f.now = f.now.Add(7 * 24 * time.Hour)

	cart, err = f.carts.Get(ctx, old, i18n.English)
	require.NoError(t, err)
	assert.Empty(t, cart.SessionToken)
	assert.Empty(t, cart.Items)

	cart, err = f.carts.AddItem(ctx, old, nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)
	assert.NotEqual(t, old, cart.SessionToken)
	assert.Len(t, cart.Items, 1)
}

func TestCartGetWithoutSession(t *testing.T) {
	f := newCartFixture(t)

	cart, err := f.carts.Get(context.Background(), "", i18n.English)
	require.NoError(t, err)
	assert.Empty(t, cart.SessionToken)
	assert.Nil(t, cart.ExpiresAt)
	assert.Empty(t, cart.Items)
	assert.Equal(t, services.FlatShippingFee, cart.ShippingAmount)
}

func TestCartUpdateAndRemove(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)
	token, lineID := cart.SessionToken, cart.Items[0].ID

	cart, err = f.carts.UpdateItem(ctx, token, lineID, 3, i18n.English)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(3*62800), cart.Items[0].LineTotal)

	_, err = f.carts.UpdateItem(ctx, token, lineID, 6, i18n.English)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	_, err = f.carts.UpdateItem(ctx, "", lineID, 2, i18n.English)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)

	cart, err = f.carts.UpdateItem(ctx, token, lineID, 0, i18n.English)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = f.carts.RemoveItem(ctx, token, lineID, i18n.English)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)
}

func TestCartLinesAreScopedToSession(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	mine, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)
	theirs, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)

	_, err = f.carts.RemoveItem(ctx, mine.SessionToken, theirs.Items[0].ID, i18n.English)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)
	assert.Equal(t, 1, f.db.LineCount(theirs.SessionToken))
}

func TestCartClear(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)

	cart, err = f.carts.Clear(ctx, cart.SessionToken, nil, i18n.English)
	require.NoError(t, err)
	assert.NotEmpty(t, cart.SessionToken)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
}

func TestCartPurgeExpired(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	stale := f.db.AddSession(models.Session{CreatedAt: clock.Add(-8 * 24 * time.Hour), ExpiresAt: clock.Add(-time.Hour)})
	fresh := f.db.AddSession(models.Session{CreatedAt: clock, ExpiresAt: clock.Add(time.Hour)})

	n, err := f.carts.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.db.Sessions().FindActive(ctx, stale, clock.Add(-2*time.Hour))
	assert.Error(t, err)
	_, err = f.db.Sessions().FindActive(ctx, fresh, clock)
	assert.NoError(t, err)
}

func TestCartSignedInUserIsAttached(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.carts.AddItem(ctx, "", nil, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)

	userID := 77
	session, err := f.carts.EnsureSession(ctx, cart.SessionToken, &userID)
	require.NoError(t, err)
	assert.Equal(t, cart.SessionToken, session.ID)
	require.NotNil(t, session.UserID)
	assert.Equal(t, 77, *session.UserID)
}
