package testutil

import (
	"context"
	"fmt"
	"pc-store/models"
	"pc-store/repositories"
	"sort"
	"strings"
	"time"
)

type Products struct {
	db *DB

	// ListCalls counts List invocations, for cache tests.
	ListCalls int
}

// product returns a copy with the joined category slug. Callers hold the lock.
func (s *Products) product(p *models.Product) models.Product {
	cp := *p
	if c, ok := s.db.categories[p.CategoryID]; ok {
		cp.CategorySlug = c.Slug
	}
	if p.BrandID != nil {
		if b, ok := s.db.brands[*p.BrandID]; ok {
			cp.BrandName = b.Name
		}
	}
	cp.Images = nil
	cp.Variants = nil
	return cp
}

func (s *Products) matches(p *models.Product, f models.ProductFilter) bool {
	if !f.IncludeInactive && !p.IsActive {
		return false
	}
	if f.Featured && !p.IsFeatured {
		return false
	}
	if f.InStock && p.Stock <= 0 {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.NameEN), q) &&
			!strings.Contains(strings.ToLower(p.NameJA), q) &&
			!strings.Contains(strings.ToLower(p.SKU), q) {
			return false
		}
	}
	if f.CategorySlug != "" {
		c, ok := s.db.categories[p.CategoryID]
		if !ok {
			return false
		}
		if c.Slug != f.CategorySlug {
			parent := c.ParentID
			if parent == nil || s.db.categories[*parent] == nil || s.db.categories[*parent].Slug != f.CategorySlug {
				return false
			}
		}
	}
	if f.BrandSlug != "" {
		if p.BrandID == nil || s.db.brands[*p.BrandID] == nil || s.db.brands[*p.BrandID].Slug != f.BrandSlug {
			return false
		}
	}
	return true
}

func (s *Products) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.ListCalls++

	all := []models.Product{}
	for _, p := range s.db.products {
		if s.matches(p, f) {
			all = append(all, s.product(p))
		}
	}
	switch f.Sort {
	case models.SortPriceAsc:
		sort.Slice(all, func(i, j int) bool { return all[i].Price < all[j].Price })
	case models.SortPriceDesc:
		sort.Slice(all, func(i, j int) bool { return all[i].Price > all[j].Price })
	default:
		sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	}
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (s *Products) FindByID(ctx context.Context, id int) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return nil, notFound("products.FindByID")
	}
	cp := s.product(p)
	return &cp, nil
}

func (s *Products) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.products {
		if p.Slug == slug {
			cp := s.product(p)
			return &cp, nil
		}
	}
	return nil, notFound("products.FindBySlug")
}

func (s *Products) Images(ctx context.Context, productID int) ([]models.ProductImage, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.ProductImage{}
	for _, img := range s.db.images {
		if img.ProductID == productID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *Products) Variants(ctx context.Context, productID int, activeOnly bool) ([]models.ProductVariant, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.ProductVariant{}
	for _, v := range s.db.variants {
		if v.ProductID == productID && (!activeOnly || v.IsActive) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Products) Create(ctx context.Context, in models.ProductInput) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.products {
		if p.SKU == in.SKU || p.Slug == in.Slug {
			return 0, fmt.Errorf("products.Create: %w", repositories.ErrConflict)
		}
	}
	if _, ok := s.db.categories[in.CategoryID]; !ok {
		return 0, fmt.Errorf("products.Create: %w", repositories.ErrInvalidReference)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	p := &models.Product{
		ID: s.db.id(), SKU: in.SKU, Slug: in.Slug,
		NameEN: in.NameEN, NameJA: in.NameJA,
		DescriptionEN: in.DescriptionEN, DescriptionJA: in.DescriptionJA,
		CategoryID: in.CategoryID, BrandID: in.BrandID,
		Price: in.Price, ComparePrice: in.ComparePrice, Stock: in.Stock,
		IsFeatured: in.IsFeatured, IsActive: active,
		CreatedAt: now, UpdatedAt: now,
	}
	s.db.products[p.ID] = p
	return p.ID, nil
}

func (s *Products) Update(ctx context.Context, id int, patch models.ProductPatch) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return notFound("products.Update")
	}
	if patch.CategoryID != nil {
		if _, ok := s.db.categories[*patch.CategoryID]; !ok {
			return fmt.Errorf("products.Update: %w", repositories.ErrInvalidReference)
		}
		p.CategoryID = *patch.CategoryID
	}
	if patch.NameEN != nil {
		p.NameEN = *patch.NameEN
	}
	if patch.NameJA != nil {
		p.NameJA = *patch.NameJA
	}
	if patch.DescriptionEN != nil {
		p.DescriptionEN = *patch.DescriptionEN
	}
	if patch.DescriptionJA != nil {
		p.DescriptionJA = *patch.DescriptionJA
	}
	if patch.BrandID != nil {
		p.BrandID = patch.BrandID
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ComparePrice != nil {
		p.ComparePrice = patch.ComparePrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (s *Products) Deactivate(ctx context.Context, id int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return notFound("products.Deactivate")
	}
	p.IsActive = false
	return nil
}

func (s *Products) AddImage(ctx context.Context, img *models.ProductImage) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	count := 0
	for _, existing := range s.db.images {
		if existing.ProductID == img.ProductID {
			count++
		}
	}
	img.ID = s.db.id()
	img.SortOrder = count
	img.IsPrimary = count == 0
	cp := *img
	s.db.images[img.ID] = &cp
	if p, ok := s.db.products[img.ProductID]; ok && img.IsPrimary {
		p.ImageURL = img.URL
	}
	return nil
}

type Reviews struct{ db *DB }

func (s *Reviews) List(ctx context.Context, productID, page, limit int) ([]models.Review, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	all := []models.Review{}
	for _, r := range s.db.reviews {
		if r.ProductID == productID {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, page, limit), int64(len(all)), nil
}

func (s *Reviews) Create(ctx context.Context, review *models.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sum, count := 0, 0
	for _, r := range s.db.reviews {
		if r.ProductID != review.ProductID {
			continue
		}
		if r.UserID == review.UserID {
			return fmt.Errorf("reviews.Create: %w", repositories.ErrConflict)
		}
		sum += r.Rating
		count++
	}
	review.ID = s.db.id()
	review.CreatedAt = time.Now()
	cp := *review
	s.db.reviews[review.ID] = &cp

	if p, ok := s.db.products[review.ProductID]; ok {
		p.ReviewCount = count + 1
		p.RatingAvg = float64(sum+review.Rating) / float64(count+1)
	}
	return nil
}
