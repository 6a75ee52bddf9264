package controllers

import (
	"net/http"
	"pc-store/i18n"
	"pc-store/middleware"
	"pc-store/models"
	"pc-store/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// @Summary List products
// @Description Paginated, filtered product listing in the request language
// @Tags Products
// @Produce json
// @Param q query string false "Search in names, SKU and descriptions"
// @Param category query string false "Category slug (includes direct children)"
// @Param brand query string false "Brand slug"
// @Param min_price query int false "Minimum price (yen)"
// @Param max_price query int false "Maximum price (yen)"
// @Param in_stock query bool false "Only products with stock"
// @Param featured query bool false "Only featured products"
// @Param sort query string false "newest, price_asc, price_desc, name, rating, popular" default(newest)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Param lang query string false "en or ja"
// @Success 200 {object} models.Response{data=[]models.Product}
// @Failure 400 {object} models.Response
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindFailed(c, err)
		return
	}

	page, err := ctrl.catalog.ListProducts(c.Request.Context(), filter, middleware.Lang(c))
	if err != nil {
		handleError(c, "list products", err)
		return
	}
	respondPage(c, i18n.KeyOK, page.Items, &page.Pagination)
}

// @Summary Featured products
// @Tags Products
// @Produce json
// @Param limit query int false "Number of products (max 24)" default(8)
// @Success 200 {object} models.Response{data=[]models.Product}
// @Router /products/featured [get]
func (ctrl *ProductController) GetFeatured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := ctrl.catalog.Featured(c.Request.Context(), limit, middleware.Lang(c))
	if err != nil {
		handleError(c, "featured products", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, products)
}

// @Summary Product detail
// @Description Look up an active product by numeric id or slug, with images and variants
// @Tags Products
// @Produce json
// @Param id path string true "Product id or slug"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.Response
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	product, err := ctrl.catalog.GetProduct(c.Request.Context(), c.Param("id"), middleware.Lang(c))
	if err != nil {
		handleError(c, "get product", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, product)
}

// @Summary Product reviews
// @Tags Reviews
// @Produce json
// @Param id path string true "Product id or slug"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.Response{data=[]models.Review}
// @Failure 404 {object} models.Response
// @Router /products/{id}/reviews [get]
func (ctrl *ProductController) GetReviews(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}

	reviews, pagination, err := ctrl.catalog.ListReviews(c.Request.Context(), c.Param("id"), q.Page, q.Limit)
	if err != nil {
		handleError(c, "list reviews", err)
		return
	}
	respondPage(c, i18n.KeyOK, reviews, pagination)
}

// @Summary Write a review
// @Description One review per user and product
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product id or slug"
// @Param request body models.CreateReviewRequest true "Review"
// @Success 201 {object} models.Response{data=models.Review}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /products/{id}/reviews [post]
func (ctrl *ProductController) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	review, err := ctrl.catalog.CreateReview(c.Request.Context(), middleware.CurrentUser(c).UserID, c.Param("id"), req)
	if err != nil {
		handleError(c, "create review", err)
		return
	}
	respond(c, http.StatusCreated, i18n.KeyReviewCreated, review)
}
