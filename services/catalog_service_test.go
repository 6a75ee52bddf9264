package services_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/services"
	"pc-store/testutil"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	db       *testutil.DB
	products *testutil.Products
	cache    *testutil.Cache
	catalog  *services.CatalogService
	admin    *services.AdminService
	images   *testutil.Images

	storage, nvme, corsair int
	ssd, psu, hidden      int
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := testutil.NewDB()
	f := &catalogFixture{db: db, products: db.Products(), cache: testutil.NewCache(), images: testutil.NewImages()}

	f.storage = db.AddCategory(models.Category{Slug: "storage", NameEN: "Storage", NameJA: "ストレージ"})
	f.nvme = db.AddCategory(models.Category{Slug: "nvme-ssd", NameEN: "NVMe SSD", NameJA: "NVMe SSD", ParentID: &f.storage})
	f.corsair = db.AddBrand(models.Brand{Slug: "corsair", Name: "Corsair"})

	f.ssd = db.AddProduct(models.Product{
		SKU: "SSD-990PRO-2T", Slug: "samsung-990-pro-2tb", NameEN: "990 PRO 2TB", NameJA: "990 PRO 2TB SSD",
		CategoryID: f.nvme, Price: 29800, Stock: 12, IsActive: true, IsFeatured: true,
	})
	f.psu = db.AddProduct(models.Product{
		SKU: "PSU-RM850E", Slug: "corsair-rm850e", NameEN: "RM850e", NameJA: "RM850e 電源ユニット",
		BrandID: &f.corsair, Price: 16800, Stock: 0, IsActive: true,
	})
	f.hidden = db.AddProduct(models.Product{SKU: "OLD-1", Slug: "old-1", NameEN: "Old part", Price: 100, Stock: 1})

	f.catalog = services.NewCatalogService(f.products, db.Categories(), db.Reviews(), f.cache)
	f.admin = services.NewAdminService(f.products, db.Users(), f.images, f.catalog)
	return f
}

func TestListProductsFilters(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	minPrice := int64(20000)

	tests := []struct {
		name   string
		filter models.ProductFilter
		want   []int
	}{
		{"active only, newest first", models.ProductFilter{}, []int{f.psu, f.ssd}},
		{"parent category includes children", models.ProductFilter{CategorySlug: "storage"}, []int{f.ssd}},
		{"brand", models.ProductFilter{BrandSlug: "corsair"}, []int{f.psu}},
		{"in stock", models.ProductFilter{InStock: true}, []int{f.ssd}},
		{"min price", models.ProductFilter{MinPrice: &minPrice}, []int{f.ssd}},
		{"japanese search", models.ProductFilter{Search: "電源"}, []int{f.psu}},
		{"price ascending", models.ProductFilter{Sort: models.SortPriceAsc}, []int{f.psu, f.ssd}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.catalog.ListProducts(ctx, tt.filter, i18n.English)
			require.NoError(t, err)
			got := make([]int, 0, len(page.Items))
			for _, p := range page.Items {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(len(tt.want)), page.Pagination.Total)
		})
	}
}

func TestListProductsLocalizes(t *testing.T) {
	f := newCatalogFixture(t)

	page, err := f.catalog.ListProducts(context.Background(), models.ProductFilter{BrandSlug: "corsair"}, i18n.Japanese)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "RM850e 電源ユニット", page.Items[0].Name)
	assert.Equal(t, models.DefaultPageLimit, page.Pagination.Limit)
}

func TestListProductsUsesCache(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.catalog.ListProducts(ctx, models.ProductFilter{}, i18n.English)
	require.NoError(t, err)
	_, err = f.catalog.ListProducts(ctx, models.ProductFilter{Page: 1, Limit: models.DefaultPageLimit, Sort: models.SortNewest}, i18n.English)
	require.NoError(t, err)

	assert.Equal(t, 1, f.products.ListCalls)
	assert.Equal(t, 1, f.cache.Hits)

	_, err = f.catalog.ListProducts(ctx, models.ProductFilter{}, i18n.Japanese)
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.ListCalls)
}

func TestAdminWritesInvalidateCache(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.catalog.ListProducts(ctx, models.ProductFilter{}, i18n.English)
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.Len())

	price := int64(15000)
	_, err = f.admin.UpdateProduct(ctx, f.psu, models.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Zero(t, f.cache.Len())

	page, err := f.catalog.ListProducts(ctx, models.ProductFilter{BrandSlug: "corsair"}, i18n.English)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), page.Items[0].Price)
}

func TestGetProductByIDOrSlug(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	bySlug, err := f.catalog.GetProduct(ctx, "samsung-990-pro-2tb", i18n.Japanese)
	require.NoError(t, err)
	assert.Equal(t, "990 PRO 2TB SSD", bySlug.Name)

	byID, err := f.catalog.GetProduct(ctx, strconv.Itoa(f.ssd), i18n.English)
	require.NoError(t, err)
	assert.Equal(t, bySlug.ID, byID.ID)

	_, err = f.catalog.GetProduct(ctx, "old-1", i18n.English)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = f.catalog.GetProduct(ctx, "no-such-part", i18n.English)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestFeaturedClampsLimit(t *testing.T) {
	f := newCatalogFixture(t)

	items, err := f.catalog.Featured(context.Background(), 500, i18n.English)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.ssd, items[0].ID)
}

func TestCategories(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	cats, err := f.catalog.ListCategories(ctx, i18n.Japanese)
	require.NoError(t, err)

	var storage *models.Category
	for i := range cats {
		if cats[i].Slug == "storage" {
			storage = &cats[i]
		}
	}
	require.NotNil(t, storage)
	assert.Equal(t, "ストレージ", storage.Name)
	require.Len(t, storage.Children, 1)
	assert.Equal(t, "nvme-ssd", storage.Children[0].Slug)

	_, err = f.catalog.GetCategory(ctx, "keyboards", i18n.English)
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)
}

func TestReviews(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateReview(ctx, 1, "samsung-990-pro-2tb", models.CreateReviewRequest{Rating: 5, Title: " Fast "})
	require.NoError(t, err)
	_, err = f.catalog.CreateReview(ctx, 2, "samsung-990-pro-2tb", models.CreateReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = f.catalog.CreateReview(ctx, 1, "samsung-990-pro-2tb", models.CreateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, services.ErrReviewExists)

	reviews, page, err := f.catalog.ListReviews(ctx, "samsung-990-pro-2tb", 1, 10)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "Fast", reviews[1].Title)

	product, err := f.catalog.GetProduct(ctx, "samsung-990-pro-2tb", i18n.English)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, product.RatingAvg, 0.001)
	assert.Equal(t, 2, product.ReviewCount)
}

func TestAdminProductLifecycle(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	created, err := f.admin.CreateProduct(ctx, models.ProductInput{
		SKU: " CASE-4000D ", Slug: "Corsair-4000D", NameEN: "4000D Airflow", CategoryID: f.storage, Price: 13800, Stock: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "CASE-4000D", created.SKU)
	assert.Equal(t, "corsair-4000d", created.Slug)
	assert.True(t, created.IsActive)

	_, err = f.admin.CreateProduct(ctx, models.ProductInput{SKU: "CASE-4000D", Slug: "other", NameEN: "x", CategoryID: f.storage})
	assert.ErrorIs(t, err, services.ErrProductConflict)

	_, err = f.admin.CreateProduct(ctx, models.ProductInput{SKU: "NEW", Slug: "new", NameEN: "x", CategoryID: 9999})
	assert.ErrorIs(t, err, services.ErrInvalidReference)

	_, err = f.admin.UpdateProduct(ctx, created.ID, models.ProductPatch{})
	assert.ErrorIs(t, err, services.ErrEmptyPatch)

	name := "4000D Airflow Black"
	updated, err := f.admin.UpdateProduct(ctx, created.ID, models.ProductPatch{NameEN: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, int64(13800), updated.Price)

	_, err = f.admin.UpdateProduct(ctx, 9999, models.ProductPatch{NameEN: &name})
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	require.NoError(t, f.admin.DeleteProduct(ctx, created.ID))
	_, err = f.catalog.GetProduct(ctx, "corsair-4000d", i18n.English)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	page, err := f.admin.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Pagination.Total)
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestAdminUploadImage(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	fh := fileHeader(t, "front.png", []byte("\x89PNG fake"))

	first, err := f.admin.UploadImage(ctx, f.ssd, fh, " front ")
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)
	assert.Equal(t, "front", first.AltText)

	second, err := f.admin.UploadImage(ctx, f.ssd, fh, "")
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	product, err := f.catalog.GetProduct(ctx, "samsung-990-pro-2tb", i18n.English)
	require.NoError(t, err)
	assert.Len(t, product.Images, 2)
	assert.Equal(t, first.URL, product.ImageURL)

	_, err = f.admin.UploadImage(ctx, 9999, fh, "")
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	f.images.Err = errors.New("cloud unavailable")
	_, err = f.admin.UploadImage(ctx, f.ssd, fh, "")
	assert.Error(t, err)
}

func TestAdminUsers(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	id := f.db.AddUser(models.User{Email: "staff@example.jp", Role: models.RoleCustomer})

	user, err := f.admin.UpdateUserRole(ctx, id, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = f.admin.UpdateUserRole(ctx, id, "owner")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.admin.UpdateUserRole(ctx, 9999, models.RoleCustomer)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	users, page, err := f.admin.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, page.Page)
}
