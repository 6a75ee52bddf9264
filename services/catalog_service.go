package services

import (
	"context"
	"errors"
	"log"
	"net/url"
	"pc-store/models"
	"pc-store/repositories"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultFeaturedLimit = 8
	MaxFeaturedLimit     = 24
)

type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	reviews    ReviewStore
	cache      ProductCache
	group      singleflight.Group
}

// NewCatalogService builds the service; cache may be nil.
func NewCatalogService(products ProductStore, categories CategoryStore, reviews ReviewStore, cache ProductCache) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		reviews:    reviews,
		cache:      cache,
	}
}

func normalizeProductFilter(f models.ProductFilter) models.ProductFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.Page, f.Limit = models.NormalizePage(f.Page, f.Limit, models.DefaultPageLimit)
	if f.Sort == "" {
		f.Sort = models.SortNewest
	}
	return f
}

// productCacheKey is stable for equal filters regardless of query order.
func productCacheKey(f models.ProductFilter, lang string) string {
	v := url.Values{}
	v.Set("lang", lang)
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("sort", f.Sort)
	if f.Search != "" {
		v.Set("q", strings.ToLower(f.Search))
	}
	if f.CategorySlug != "" {
		v.Set("category", f.CategorySlug)
	}
	if f.BrandSlug != "" {
		v.Set("brand", f.BrandSlug)
	}
	if f.MinPrice != nil {
		v.Set("min", strconv.FormatInt(*f.MinPrice, 10))
	}
	if f.MaxPrice != nil {
		v.Set("max", strconv.FormatInt(*f.MaxPrice, 10))
	}
	if f.InStock {
		v.Set("in_stock", "1")
	}
	if f.Featured {
		v.Set("featured", "1")
	}
	return "products:" + v.Encode()
}

func (s *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter, lang string) (*models.ProductPage, error) {
	filter = normalizeProductFilter(filter)
	filter.IncludeInactive = false
	key := productCacheKey(filter, lang)

	if s.cache != nil {
		page, err := s.cache.Get(ctx, key)
		if err == nil {
			return page, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		products, total, err := s.products.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range products {
			products[i].Localize(lang)
		}
		page := &models.ProductPage{
			Items:      products,
			Pagination: *models.NewPagination(filter.Page, filter.Limit, total),
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, page); err != nil {
				log.Printf("product cache set %s: %v", key, err)
			}
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ProductPage), nil
}

func (s *CatalogService) Featured(ctx context.Context, limit int, lang string) ([]models.Product, error) {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	if limit > MaxFeaturedLimit {
		limit = MaxFeaturedLimit
	}
	page, err := s.ListProducts(ctx, models.ProductFilter{Featured: true, Page: 1, Limit: limit}, lang)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// resolveProduct accepts a numeric id or a slug. Inactive products are only
// visible when includeInactive is set.
func (s *CatalogService) resolveProduct(ctx context.Context, idOrSlug string, includeInactive bool) (*models.Product, error) {
	var (
		product *models.Product
		err     error
	)
	if id, convErr := strconv.Atoi(idOrSlug); convErr == nil {
		product, err = s.products.FindByID(ctx, id)
	} else {
		product, err = s.products.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive && !includeInactive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, idOrSlug, lang string) (*models.Product, error) {
	product, err := s.resolveProduct(ctx, idOrSlug, false)
	if err != nil {
		return nil, err
	}
	if err := s.loadDetails(ctx, product, true); err != nil {
		return nil, err
	}
	product.Localize(lang)
	return product, nil
}

func (s *CatalogService) loadDetails(ctx context.Context, product *models.Product, activeVariantsOnly bool) error {
	images, err := s.products.Images(ctx, product.ID)
	if err != nil {
		return err
	}
	variants, err := s.products.Variants(ctx, product.ID, activeVariantsOnly)
	if err != nil {
		return err
	}
	product.Images = images
	product.Variants = variants
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context, lang string) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Localize(lang)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, slug, lang string) (*models.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	category.Localize(lang)
	return category, nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.categories.ListBrands(ctx)
}

func (s *CatalogService) ListReviews(ctx context.Context, idOrSlug string, page, limit int) ([]models.Review, *models.Pagination, error) {
	product, err := s.resolveProduct(ctx, idOrSlug, false)
	if err != nil {
		return nil, nil, err
	}
	page, limit = models.NormalizePage(page, limit, models.DefaultPageLimit)

	reviews, total, err := s.reviews.List(ctx, product.ID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return reviews, models.NewPagination(page, limit, total), nil
}

// CreateReview allows one review per user and product.
func (s *CatalogService) CreateReview(ctx context.Context, userID int, idOrSlug string, req models.CreateReviewRequest) (*models.Review, error) {
	product, err := s.resolveProduct(ctx, idOrSlug, false)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     strings.TrimSpace(req.Title),
		Body:      strings.TrimSpace(req.Body),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	s.InvalidateProducts(ctx)
	return review, nil
}

// InvalidateProducts drops every cached product page. Failures are logged;
// entries expire on their own.
func (s *CatalogService) InvalidateProducts(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("product cache invalidate: %v", err)
	}
}
