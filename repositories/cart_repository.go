package repositories

import (
	"context"
	"fmt"
	"pc-store/models"
)

type CartRepository struct {
	db DBPool
}

func NewCartRepository(db DBPool) *CartRepository {
	return &CartRepository{db: db}
}

const cartLineSelect = `
	SELECT ci.id, ci.session_id::text, ci.product_id, ci.variant_id, ci.quantity, ci.unit_price,
	       p.sku, p.slug, p.name_en, p.name_ja,
	       COALESCE(v.sku, ''), COALESCE(v.name_en, ''), COALESCE(v.name_ja, ''),
	       COALESCE((SELECT i.url FROM product_images i WHERE i.product_id = p.id
	                 ORDER BY i.is_primary DESC, i.sort_order, i.id LIMIT 1), ''),
	       COALESCE(v.stock, p.stock),
	       ci.created_at, ci.updated_at
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	LEFT JOIN product_variants v ON v.id = ci.variant_id
`

func scanCartLine(row interface{ Scan(...any) error }) (*models.CartLine, error) {
	var l models.CartLine
	err := row.Scan(
		&l.ID, &l.SessionID, &l.ProductID, &l.VariantID, &l.Quantity, &l.UnitPrice,
		&l.ProductSKU, &l.ProductSlug, &l.ProductNameEN, &l.ProductNameJA,
		&l.VariantSKU, &l.VariantNameEN, &l.VariantNameJA,
		&l.ImageURL, &l.Stock,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.LineTotal = l.UnitPrice * int64(l.Quantity)
	return &l, nil
}

func (r *CartRepository) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	rows, err := r.db.Query(ctx, cartLineSelect+` WHERE ci.session_id = $1 ORDER BY ci.id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cart.Lines: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("cart.Lines scan: %w", err)
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}

// FindLine looks up the line for a (product, variant) pair in a session.
func (r *CartRepository) FindLine(ctx context.Context, sessionID string, productID int, variantID *int) (*models.CartLine, error) {
	l, err := scanCartLine(r.db.QueryRow(ctx,
		cartLineSelect+` WHERE ci.session_id = $1 AND ci.product_id = $2 AND ci.variant_id IS NOT DISTINCT FROM $3`,
		sessionID, productID, variantID,
	))
	if err != nil {
		return nil, fmt.Errorf("cart.FindLine: %w", translate(err))
	}
	return l, nil
}

func (r *CartRepository) FindLineByID(ctx context.Context, sessionID string, lineID int) (*models.CartLine, error) {
	l, err := scanCartLine(r.db.QueryRow(ctx,
		cartLineSelect+` WHERE ci.session_id = $1 AND ci.id = $2`, sessionID, lineID,
	))
	if err != nil {
		return nil, fmt.Errorf("cart.FindLineByID: %w", translate(err))
	}
	return l, nil
}

// InsertLine adds a line. When a concurrent add created the same line first,
// the quantities are summed (capped at 99) and the first unit price is kept;
// line then reflects the stored row.
func (r *CartRepository) InsertLine(ctx context.Context, line *models.CartLine) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (session_id, product_id, variant_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, product_id, variant_id)
		DO UPDATE SET quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, 99), updated_at = NOW()
		RETURNING id, quantity, unit_price, created_at, updated_at
	`, line.SessionID, line.ProductID, line.VariantID, line.Quantity, line.UnitPrice,
	).Scan(&line.ID, &line.Quantity, &line.UnitPrice, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("cart.InsertLine: %w", translate(err))
	}
	return nil
}

// IncrementQuantity adds n in a single statement so concurrent adds to the
// same line do not overwrite each other. The captured unit price is kept.
func (r *CartRepository) IncrementQuantity(ctx context.Context, lineID, n int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = quantity + $1, updated_at = NOW() WHERE id = $2`, n, lineID)
	if err != nil {
		return fmt.Errorf("cart.IncrementQuantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart.IncrementQuantity: %w", ErrNotFound)
	}
	return nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, sessionID string, lineID, quantity int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2 AND session_id = $3`,
		quantity, lineID, sessionID)
	if err != nil {
		return fmt.Errorf("cart.SetQuantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart.SetQuantity: %w", ErrNotFound)
	}
	return nil
}

func (r *CartRepository) DeleteLine(ctx context.Context, sessionID string, lineID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND session_id = $2`, lineID, sessionID)
	if err != nil {
		return fmt.Errorf("cart.DeleteLine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart.DeleteLine: %w", ErrNotFound)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("cart.Clear: %w", err)
	}
	return nil
}
