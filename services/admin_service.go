package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/repositories"
	"pc-store/utils"
	"strings"
)

type AdminService struct {
	products ProductStore
	users    UserStore
	images   ImageStore
	catalog  *CatalogService
}

func NewAdminService(products ProductStore, users UserStore, images ImageStore, catalog *CatalogService) *AdminService {
	return &AdminService{products: products, users: users, images: images, catalog: catalog}
}

func mapProductWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, repositories.ErrConflict):
		return ErrProductConflict
	case errors.Is(err, repositories.ErrInvalidReference):
		return ErrInvalidReference
	}
	return err
}

// ListProducts includes inactive products and bypasses the cache.
func (s *AdminService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	filter = normalizeProductFilter(filter)
	filter.IncludeInactive = true

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Localize(i18n.English)
	}
	return &models.ProductPage{
		Items:      products,
		Pagination: *models.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func (s *AdminService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductWriteError(err)
	}
	if err := s.catalog.loadDetails(ctx, product, false); err != nil {
		return nil, err
	}
	product.Localize(i18n.English)
	return product, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))

	id, err := s.products.Create(ctx, in)
	if err != nil {
		return nil, mapProductWriteError(err)
	}
	s.catalog.InvalidateProducts(ctx)
	return s.GetProduct(ctx, id)
}

// UpdateProduct applies a whitelisted patch. Unknown keys never reach here;
// the controller rejects them while decoding.
func (s *AdminService) UpdateProduct(ctx context.Context, id int, patch models.ProductPatch) (*models.Product, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	if err := s.products.Update(ctx, id, patch); err != nil {
		return nil, mapProductWriteError(err)
	}
	s.catalog.InvalidateProducts(ctx)
	return s.GetProduct(ctx, id)
}

// DeleteProduct deactivates; order history keeps pointing at the row.
func (s *AdminService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		return mapProductWriteError(err)
	}
	s.catalog.InvalidateProducts(ctx)
	return nil
}

func (s *AdminService) UploadImage(ctx context.Context, id int, file *multipart.FileHeader, altText string) (*models.ProductImage, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, mapProductWriteError(err)
	}

	url, publicID, err := s.images.Upload(ctx, file, fmt.Sprintf("products/%d", id))
	if err != nil {
		if errors.Is(err, utils.ErrInvalidImage) {
			return nil, ErrInvalidImage
		}
		return nil, err
	}

	img := &models.ProductImage{ProductID: id, URL: url, PublicID: publicID, AltText: strings.TrimSpace(altText)}
	if err := s.products.AddImage(ctx, img); err != nil {
		if delErr := s.images.Delete(ctx, publicID); delErr != nil {
			log.Printf("orphaned image %s: %v", publicID, delErr)
		}
		return nil, mapProductWriteError(err)
	}

	s.catalog.InvalidateProducts(ctx)
	return img, nil
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int) ([]models.User, *models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit, models.DefaultPageLimit)
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return users, models.NewPagination(page, limit, total), nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, id int, role string) (*models.User, error) {
	if role != models.RoleCustomer && role != models.RoleAdmin {
		return nil, ErrValidation
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
