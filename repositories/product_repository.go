package repositories

import (
	"context"
	"fmt"
	"pc-store/models"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	db DBPool
}

func NewProductRepository(db DBPool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productSelect = `
	SELECT p.id, p.sku, p.slug, p.name_en, p.name_ja, p.description_en, p.description_ja,
	       p.category_id, c.slug, p.brand_id, COALESCE(b.name, ''),
	       p.price, p.compare_price, p.stock, p.is_featured, p.is_active,
	       p.rating_avg::float8, p.review_count,
	       COALESCE((SELECT i.url FROM product_images i WHERE i.product_id = p.id
	                 ORDER BY i.is_primary DESC, i.sort_order, i.id LIMIT 1), ''),
	       p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN brands b ON b.id = p.brand_id
`

const productFrom = `
	FROM products p
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN brands b ON b.id = p.brand_id
`

var productOrderBy = map[string]string{
	models.SortNewest:    "p.created_at DESC, p.id DESC",
	models.SortPriceAsc:  "p.price ASC, p.id",
	models.SortPriceDesc: "p.price DESC, p.id",
	models.SortName:      "p.name_en ASC, p.id",
	models.SortRating:    "p.rating_avg DESC, p.review_count DESC, p.id",
	models.SortPopular:   "p.review_count DESC, p.rating_avg DESC, p.id",
}

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Slug, &p.NameEN, &p.NameJA, &p.DescriptionEN, &p.DescriptionJA,
		&p.CategoryID, &p.CategorySlug, &p.BrandID, &p.BrandName,
		&p.Price, &p.ComparePrice, &p.Stock, &p.IsFeatured, &p.IsActive,
		&p.RatingAvg, &p.ReviewCount, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// buildProductWhere turns a filter into a WHERE clause with positional
// arguments starting at $1.
func buildProductWhere(f models.ProductFilter) (string, []any) {
	conditions := []string{}
	args := []any{}
	paramIndex := 1

	if !f.IncludeInactive {
		conditions = append(conditions, "p.is_active = true")
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.name_en ILIKE $%[1]d OR p.name_ja ILIKE $%[1]d OR p.sku ILIKE $%[1]d OR p.description_en ILIKE $%[1]d OR p.description_ja ILIKE $%[1]d)",
			paramIndex))
		args = append(args, "%"+search+"%")
		paramIndex++
	}
	if f.CategorySlug != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(c.slug = $%[1]d OR c.parent_id = (SELECT id FROM categories WHERE slug = $%[1]d))", paramIndex))
		args = append(args, f.CategorySlug)
		paramIndex++
	}
	if f.BrandSlug != "" {
		conditions = append(conditions, fmt.Sprintf("b.slug = $%d", paramIndex))
		args = append(args, f.BrandSlug)
		paramIndex++
	}
	if f.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", paramIndex))
		args = append(args, *f.MinPrice)
		paramIndex++
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", paramIndex))
		args = append(args, *f.MaxPrice)
		paramIndex++
	}
	if f.InStock {
		conditions = append(conditions, "p.stock > 0")
	}
	if f.Featured {
		conditions = append(conditions, "p.is_featured = true")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// List expects a normalized filter (page >= 1, limit > 0).
func (r *ProductRepository) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	where, args := buildProductWhere(f)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+productFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products.List count: %w", err)
	}

	orderBy, ok := productOrderBy[f.Sort]
	if !ok {
		orderBy = productOrderBy[models.SortNewest]
	}

	paramIndex := len(args) + 1
	query := productSelect + where +
		fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, paramIndex, paramIndex+1)
	args = append(args, f.Limit, offset(f.Page, f.Limit))

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products.List: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("products.FindByID: %w", translate(err))
	}
	return p, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.slug = $1`, slug))
	if err != nil {
		return nil, fmt.Errorf("products.FindBySlug: %w", translate(err))
	}
	return p, nil
}

func (r *ProductRepository) Images(ctx context.Context, productID int) ([]models.ProductImage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, url, public_id, alt_text, sort_order, is_primary
		FROM product_images WHERE product_id = $1
		ORDER BY is_primary DESC, sort_order, id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("products.Images: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.PublicID, &img.AltText, &img.SortOrder, &img.IsPrimary); err != nil {
			return nil, fmt.Errorf("products.Images scan: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *ProductRepository) Variants(ctx context.Context, productID int, activeOnly bool) ([]models.ProductVariant, error) {
	query := `SELECT id, product_id, sku, name_en, name_ja, price, stock, is_active
	          FROM product_variants WHERE product_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("products.Variants: %w", err)
	}
	defer rows.Close()

	variants := []models.ProductVariant{}
	for rows.Next() {
		var v models.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.NameEN, &v.NameJA, &v.Price, &v.Stock, &v.IsActive); err != nil {
			return nil, fmt.Errorf("products.Variants scan: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, in models.ProductInput) (int, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (sku, slug, name_en, name_ja, description_en, description_ja,
		                      category_id, brand_id, price, compare_price, stock, is_featured, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		in.SKU, in.Slug, in.NameEN, in.NameJA, in.DescriptionEN, in.DescriptionJA,
		in.CategoryID, in.BrandID, in.Price, in.ComparePrice, in.Stock, in.IsFeatured, active,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("products.Create: %w", translate(err))
	}
	return id, nil
}

// Update writes only the columns present in the patch.
func (r *ProductRepository) Update(ctx context.Context, id int, patch models.ProductPatch) error {
	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.NameEN != nil {
		set("name_en", *patch.NameEN)
	}
	if patch.NameJA != nil {
		set("name_ja", *patch.NameJA)
	}
	if patch.DescriptionEN != nil {
		set("description_en", *patch.DescriptionEN)
	}
	if patch.DescriptionJA != nil {
		set("description_ja", *patch.DescriptionJA)
	}
	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	if patch.BrandID != nil {
		set("brand_id", *patch.BrandID)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.ComparePrice != nil {
		set("compare_price", *patch.ComparePrice)
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.IsFeatured != nil {
		set("is_featured", *patch.IsFeatured)
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s, updated_at = NOW() WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("products.Update: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("products.Update: %w", ErrNotFound)
	}
	return nil
}

func (r *ProductRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products.Deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("products.Deactivate: %w", ErrNotFound)
	}
	return nil
}

// AddImage appends an image; the first image of a product becomes primary.
func (r *ProductRepository) AddImage(ctx context.Context, img *models.ProductImage) error {
	_, err := withTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		var count int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM product_images WHERE product_id = $1`, img.ProductID,
		).Scan(&count); err != nil {
			return struct{}{}, err
		}

		img.SortOrder = count
		img.IsPrimary = count == 0

		err := tx.QueryRow(ctx, `
			INSERT INTO product_images (product_id, url, public_id, alt_text, sort_order, is_primary)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, img.ProductID, img.URL, img.PublicID, img.AltText, img.SortOrder, img.IsPrimary).Scan(&img.ID)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("products.AddImage: %w", translate(err))
	}
	return nil
}
