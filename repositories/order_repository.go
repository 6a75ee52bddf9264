package repositories

import (
	"context"
	"fmt"
	"pc-store/models"
	"strings"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db DBPool
}

func NewOrderRepository(db DBPool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	o.id, o.order_number, o.user_id, COALESCE(o.session_id::text, ''), o.email, o.language,
	o.status, o.payment_method, o.payment_status,
	o.subtotal, o.tax_amount, o.shipping_amount, o.discount_amount, o.total_amount,
	o.shipping_full_name, o.shipping_postal_code, o.shipping_prefecture, o.shipping_city,
	o.shipping_address_line1, o.shipping_address_line2, o.shipping_phone,
	o.billing_full_name, o.billing_postal_code, o.billing_prefecture, o.billing_city,
	o.billing_address_line1, o.billing_address_line2, o.billing_phone,
	o.notes, o.created_at, o.updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	s, b := &o.ShippingAddress, &o.BillingAddress
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.SessionID, &o.Email, &o.Language,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.Subtotal, &o.TaxAmount, &o.ShippingAmount, &o.DiscountAmount, &o.TotalAmount,
		&s.FullName, &s.PostalCode, &s.Prefecture, &s.City, &s.AddressLine1, &s.AddressLine2, &s.Phone,
		&b.FullName, &b.PostalCode, &b.Prefecture, &b.City, &b.AddressLine1, &b.AddressLine2, &b.Phone,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts the order and its lines and removes the ordered quantities
// from the originating cart, all in one transaction. A duplicate order number is ErrConflict.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	_, err := withTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		s, b := order.ShippingAddress, order.BillingAddress
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (
				order_number, user_id, session_id, email, language, status, payment_method, payment_status,
				subtotal, tax_amount, shipping_amount, discount_amount, total_amount,
				shipping_full_name, shipping_postal_code, shipping_prefecture, shipping_city,
				shipping_address_line1, shipping_address_line2, shipping_phone,
				billing_full_name, billing_postal_code, billing_prefecture, billing_city,
				billing_address_line1, billing_address_line2, billing_phone,
				notes
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8,
				$9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20,
				$21, $22, $23, $24, $25, $26, $27,
				$28
			)
			RETURNING id, created_at, updated_at
		`,
			order.OrderNumber, order.UserID, order.SessionID, order.Email, order.Language,
			order.Status, order.PaymentMethod, order.PaymentStatus,
			order.Subtotal, order.TaxAmount, order.ShippingAmount, order.DiscountAmount, order.TotalAmount,
			s.FullName, s.PostalCode, s.Prefecture, s.City, s.AddressLine1, s.AddressLine2, s.Phone,
			b.FullName, b.PostalCode, b.Prefecture, b.City, b.AddressLine1, b.AddressLine2, b.Phone,
			order.Notes,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return struct{}{}, fmt.Errorf("insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, product_id, variant_id, product_name, product_sku,
				                         variant_name, unit_price, quantity, line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id
			`,
				item.OrderID, item.ProductID, item.VariantID, item.ProductName, item.ProductSKU,
				item.VariantName, item.UnitPrice, item.Quantity, item.LineTotal,
			).Scan(&item.ID)
			if err != nil {
				return struct{}{}, fmt.Errorf("insert order item: %w", err)
			}
		}

		if err := consumeCartLines(ctx, tx, order); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("orders.Create: %w", translate(err))
	}
	return nil
}

// consumeCartLines removes only what the order copied. Lines added after the
// cart was read stay, and a line incremented since keeps the difference.
func consumeCartLines(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	ids := make([]int, 0, len(order.Items))
	qtys := make([]int, 0, len(order.Items))
	for _, it := range order.Items {
		if it.CartLineID > 0 {
			ids = append(ids, it.CartLineID)
			qtys = append(qtys, it.Quantity)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items c
		USING unnest($2::int[], $3::int[]) AS s(id, qty)
		WHERE c.session_id = $1 AND c.id = s.id AND c.quantity <= s.qty
	`, order.SessionID, ids, qtys); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE cart_items c SET quantity = c.quantity - s.qty, updated_at = NOW()
		FROM unnest($2::int[], $3::int[]) AS s(id, qty)
		WHERE c.session_id = $1 AND c.id = s.id AND c.quantity > s.qty
	`, order.SessionID, ids, qtys); err != nil {
		return fmt.Errorf("trim cart: %w", err)
	}
	return nil
}

func (r *OrderRepository) Items(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, variant_id, product_name, product_sku, variant_name,
		       unit_price, quantity, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("orders.Items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName, &it.ProductSKU,
			&it.VariantName, &it.UnitPrice, &it.Quantity, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("orders.Items scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// FindByID loads the order with its lines.
func (r *OrderRepository) FindByID(ctx context.Context, id int) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("orders.FindByID: %w", translate(err))
	}
	if o.Items, err = r.Items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, where string, args []any, page, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders o`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	paramIndex := len(args) + 1
	query := `SELECT ` + orderColumns + ` FROM orders o` + where +
		fmt.Sprintf(" ORDER BY o.created_at DESC, o.id DESC LIMIT $%d OFFSET $%d", paramIndex, paramIndex+1)
	args = append(args, limit, offset(page, limit))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int64, error) {
	orders, total, err := r.queryOrders(ctx, ` WHERE o.user_id = $1`, []any{userID}, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("orders.ListByUser: %w", err)
	}
	return orders, total, nil
}

func (r *OrderRepository) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	conditions := []string{}
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	orders, total, err := r.queryOrders(ctx, where, args, f.Page, f.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("orders.List: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves the order from one status to another only if it is
// still in from. ErrConflict means someone else changed it first.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return fmt.Errorf("orders.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orders.UpdateStatus: %w", ErrConflict)
	}
	return nil
}

func (r *OrderRepository) SetStatus(ctx context.Context, id int, status models.OrderStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("orders.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orders.SetStatus: %w", ErrNotFound)
	}
	return nil
}
