package repositories

import (
	"context"
	"fmt"
	"pc-store/models"
)

type CategoryRepository struct {
	db DBPool
}

func NewCategoryRepository(db DBPool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// product_count covers active products of the category and its direct children.
const categorySelect = `
	SELECT c.id, c.slug, c.name_en, c.name_ja, c.description_en, c.description_ja,
	       c.parent_id, c.sort_order, c.created_at,
	       (SELECT COUNT(*) FROM products p
	         WHERE p.is_active = true
	           AND p.category_id IN (SELECT id FROM categories WHERE id = c.id OR parent_id = c.id)) AS product_count
	FROM categories c
`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Slug, &c.NameEN, &c.NameJA, &c.DescriptionEN, &c.DescriptionJA,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.ProductCount,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) queryCategories(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// List returns top-level categories with their children nested.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	all, err := r.queryCategories(ctx, categorySelect+` ORDER BY c.sort_order, c.id`)
	if err != nil {
		return nil, fmt.Errorf("categories.List: %w", err)
	}

	children := map[int][]models.Category{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	roots := []models.Category{}
	for _, c := range all {
		if c.ParentID == nil {
			c.Children = children[c.ID]
			roots = append(roots, c)
		}
	}
	return roots, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, categorySelect+` WHERE c.slug = $1`, slug))
	if err != nil {
		return nil, fmt.Errorf("categories.FindBySlug: %w", translate(err))
	}

	children, err := r.queryCategories(ctx, categorySelect+` WHERE c.parent_id = $1 ORDER BY c.sort_order, c.id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("categories.FindBySlug children: %w", err)
	}
	c.Children = children
	return c, nil
}

func (r *CategoryRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	query := `
		SELECT b.id, b.slug, b.name, b.logo_url, b.created_at,
		       (SELECT COUNT(*) FROM products p WHERE p.brand_id = b.id AND p.is_active = true)
		FROM brands b
		ORDER BY b.name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("brands.List: %w", err)
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		var b models.Brand
		if err := rows.Scan(&b.ID, &b.Slug, &b.Name, &b.LogoURL, &b.CreatedAt, &b.ProductCount); err != nil {
			return nil, fmt.Errorf("brands.List scan: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}
