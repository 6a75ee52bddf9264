package services_test

import (
	"context"
	"errors"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/services"
	"pc-store/testutil"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	*cartFixture
	orders *services.OrderService
	mailer *testutil.Mailer
	events *testutil.Events
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{cartFixture: newCartFixture(t), mailer: &testutil.Mailer{}, events: &testutil.Events{}}
	f.orders = services.NewOrderService(f.db.Orders(), f.carts, f.mailer, f.events).
		WithClock(func() time.Time { return f.now })
	return f
}

var tokyo = models.Address{
	FullName:     "Sato Hanako",
	PostalCode:   "150-0001",
	Prefecture:   "東京都",
	City:         "渋谷区",
	AddressLine1: "神宮前1-2-3",
}

func (f *orderFixture) fillCart(t *testing.T, userID *int) string {
	t.Helper()
	ctx := context.Background()
	cart, err := f.carts.AddItem(ctx, "", userID, models.AddCartItemRequest{ProductID: f.cpu}, i18n.English)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, cart.SessionToken, userID, models.AddCartItemRequest{ProductID: f.memory, VariantID: &f.black, Quantity: 2}, i18n.English)
	require.NoError(t, err)
	return cart.SessionToken
}

func TestOrderCreateFromGuestCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	token := f.fillCart(t, nil)

	order, err := f.orders.Create(ctx, models.Viewer{SessionToken: token}, models.CreateOrderRequest{
		Email:           "guest@example.jp",
		ShippingAddress: tokyo,
		PaymentMethod:   models.PaymentCashOnDelivery,
	}, i18n.Japanese)
	require.NoError(t, err)

	assert.Regexp(t, `^PC-20260314-\d{12}$`, order.OrderNumber)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentCODPending, order.PaymentStatus)
	assert.Nil(t, order.UserID)
	assert.Equal(t, tokyo, order.BillingAddress)
	assert.Equal(t, int64(62800+2*15800), order.Subtotal)
	assert.Equal(t, order.Subtotal+order.TaxAmount+order.ShippingAmount-order.DiscountAmount, order.TotalAmount)

	want := []models.OrderItem{
		{ProductID: f.cpu, ProductName: "Ryzen 7 7800X3D プロセッサー", ProductSKU: "CPU-R7-7800X3D", UnitPrice: 62800, Quantity: 1, LineTotal: 62800},
		{ProductID: f.memory, VariantID: &f.black, ProductName: "Vengeance DDR5 32GB メモリ", ProductSKU: "MEM-VEN-32D5-BLK", VariantName: "ブラック", UnitPrice: 15800, Quantity: 2, LineTotal: 31600},
	}
	if diff := cmp.Diff(want, order.Items, cmpopts.IgnoreFields(models.OrderItem{}, "ID", "OrderID")); diff != "" {
		t.Errorf("order items mismatch (-want +got):\n%s", diff)
	}

	assert.Zero(t, f.db.LineCount(token))
	assert.Equal(t, []string{order.OrderNumber}, f.mailer.Sent)
	require.Len(t, f.events.Published, 1)
	assert.Equal(t, "order.created", f.events.Published[0].Name)
}

func TestOrderCreateUsesAccountEmail(t *testing.T) {
	f := newOrderFixture(t)
	userID := 41
	token := f.fillCart(t, &userID)
	viewer := models.Viewer{User: &models.Identity{UserID: userID, Email: "member@example.jp", Role: models.RoleCustomer}, SessionToken: token}

	order, err := f.orders.Create(context.Background(), viewer, models.CreateOrderRequest{
		ShippingAddress: tokyo,
		PaymentMethod:   models.PaymentCreditCard,
	}, i18n.English)
	require.NoError(t, err)

	assert.Equal(t, "member@example.jp", order.Email)
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)
	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)
}

func TestOrderCreateRejects(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	req := models.CreateOrderRequest{ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard}

	_, err := f.orders.Create(ctx, models.Viewer{}, req, i18n.English)
	assert.ErrorIs(t, err, services.ErrCartEmpty)

	cleared, err := f.carts.Clear(ctx, "", nil, i18n.English)
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, models.Viewer{SessionToken: cleared.SessionToken}, req, i18n.English)
	assert.ErrorIs(t, err, services.ErrCartEmpty)

	token := f.fillCart(t, nil)
	_, err = f.orders.Create(ctx, models.Viewer{SessionToken: token}, req, i18n.English)
	assert.ErrorIs(t, err, services.ErrEmailRequired)
	assert.Equal(t, 2, f.db.LineCount(token))
}

func TestOrderCreateFailureKeepsCart(t *testing.T) {
	f := newOrderFixture(t)
	token := f.fillCart(t, nil)
	f.db.FailOrderCreate = errors.New("connection reset")

	_, err := f.orders.Create(context.Background(), models.Viewer{SessionToken: token}, models.CreateOrderRequest{
		Email: "guest@example.jp", ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard,
	}, i18n.English)
	require.Error(t, err)

	assert.Equal(t, 2, f.db.LineCount(token))
	assert.Empty(t, f.mailer.Sent)
	assert.Empty(t, f.events.Published)
}

func TestOrderNumberCollisionIsConflict(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	req := models.CreateOrderRequest{Email: "guest@example.jp", ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard}

	_, err := f.orders.Create(ctx, models.Viewer{SessionToken: f.fillCart(t, nil)}, req, i18n.English)
	require.NoError(t, err)

	_, err = f.orders.Create(ctx, models.Viewer{SessionToken: f.fillCart(t, nil)}, req, i18n.English)
	assert.ErrorIs(t, err, services.ErrOrderNumberTaken)

	f.now = f.now.Add(time.Millisecond)
	_, err = f.orders.Create(ctx, models.Viewer{SessionToken: f.fillCart(t, nil)}, req, i18n.English)
	assert.NoError(t, err)
}

func TestOrderMailAndEventFailuresDoNotFailCheckout(t *testing.T) {
	f := newOrderFixture(t)
	f.mailer.Err = errors.New("smtp down")
	f.events.Err = errors.New("broker down")
	token := f.fillCart(t, nil)

	order, err := f.orders.Create(context.Background(), models.Viewer{SessionToken: token}, models.CreateOrderRequest{
		Email: "guest@example.jp", ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard,
	}, i18n.English)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestOrderSnapshotSurvivesCatalogEdit(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	token := f.fillCart(t, nil)

	order, err := f.orders.Create(ctx, models.Viewer{SessionToken: token}, models.CreateOrderRequest{
		Email: "guest@example.jp", ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard,
	}, i18n.English)
	require.NoError(t, err)

	name, price := "Ryzen 7 7800X3D (renamed)", int64(1)
	require.NoError(t, f.db.Products().Update(ctx, f.cpu, models.ProductPatch{NameEN: &name, Price: &price}))

	got, err := f.orders.Get(ctx, order.ID, models.Viewer{SessionToken: token})
	require.NoError(t, err)
	if diff := cmp.Diff(order.Items, got.Items); diff != "" {
		t.Errorf("snapshot changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, order.TotalAmount, got.TotalAmount)
}

func TestOrderVisibility(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	owner := 41
	token := f.fillCart(t, &owner)
	ownerViewer := models.Viewer{User: &models.Identity{UserID: owner, Email: "member@example.jp", Role: models.RoleCustomer}, SessionToken: token}

	order, err := f.orders.Create(ctx, ownerViewer, models.CreateOrderRequest{ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard}, i18n.English)
	require.NoError(t, err)

	tests := []struct {
		name   string
		viewer models.Viewer
		ok     bool
	}{
		{"owner", models.Viewer{User: ownerViewer.User}, true},
		{"placing session", models.Viewer{SessionToken: token}, true},
		{"admin", models.Viewer{User: &models.Identity{UserID: 1, Role: models.RoleAdmin}}, true},
		{"other customer", models.Viewer{User: &models.Identity{UserID: 99, Role: models.RoleCustomer}}, false},
		{"other session", models.Viewer{SessionToken: "5d1f1a57-9a5e-4d0f-9b79-0c1d8f2f6f10"}, false},
		{"anonymous", models.Viewer{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.Get(ctx, order.ID, tt.viewer)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, services.ErrOrderNotFound)
			}
		})
	}
}

func TestOrderAdvanceWalksProgression(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	token := f.fillCart(t, nil)
	viewer := models.Viewer{SessionToken: token}

	order, err := f.orders.Create(ctx, viewer, models.CreateOrderRequest{
		Email: "guest@example.jp", ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard,
	}, i18n.English)
	require.NoError(t, err)

	for _, want := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusProcessing, models.StatusShipped, models.StatusDelivered,
	} {
		got, err := f.orders.Advance(ctx, order.ID, viewer)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}

	_, err = f.orders.Advance(ctx, order.ID, viewer)
	assert.ErrorIs(t, err, services.ErrOrderFinalStatus)

	stored, ok := f.db.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusDelivered, stored.Status)
	assert.Len(t, f.events.Published, 5)
	assert.Equal(t, models.StatusShipped, f.events.Published[4].From)
}

func TestOrderAdminSetStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	token := f.fillCart(t, nil)

	order, err := f.orders.Create(ctx, models.Viewer{SessionToken: token}, models.CreateOrderRequest{
		Email: "guest@example.jp", ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard,
	}, i18n.English)
	require.NoError(t, err)

	got, err := f.orders.SetStatus(ctx, order.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	_, err = f.orders.Advance(ctx, order.ID, models.Viewer{SessionToken: token})
	assert.ErrorIs(t, err, services.ErrOrderFinalStatus)

	_, err = f.orders.SetStatus(ctx, order.ID, "lost")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = f.orders.SetStatus(ctx, 4242, models.StatusShipped)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	list, page, err := f.orders.List(ctx, models.OrderFilter{Status: string(models.StatusCancelled)})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), page.Total)

	_, _, err = f.orders.List(ctx, models.OrderFilter{Status: "bogus"})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestOrderListForUser(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	owner := 41
	viewer := models.Viewer{User: &models.Identity{UserID: owner, Email: "member@example.jp"}}

	for i := 0; i < 3; i++ {
		viewer.SessionToken = f.fillCart(t, &owner)
		_, err := f.orders.Create(ctx, viewer, models.CreateOrderRequest{ShippingAddress: tokyo, PaymentMethod: models.PaymentCreditCard}, i18n.English)
		require.NoError(t, err)
		f.now = f.now.Add(time.Second)
	}

	orders, page, err := f.orders.ListForUser(ctx, owner, 1, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.HasNext)

	orders, _, err = f.orders.ListForUser(ctx, 7, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
