package controllers

import (
	"net/http"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/services"

	"github.com/gin-gonic/gin"
)

type AdminProductController struct {
	admin *services.AdminService
}

func NewAdminProductController(admin *services.AdminService) *AdminProductController {
	return &AdminProductController{admin: admin}
}

// @Summary List products (admin)
// @Description Includes inactive products; never cached
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search"
// @Param category query string false "Category slug"
// @Param sort query string false "Sort order"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.Response{data=[]models.Product}
// @Failure 403 {object} models.Response
// @Router /admin/products [get]
func (ctrl *AdminProductController) GetAllProducts(c *gin.Context) {
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindFailed(c, err)
		return
	}

	page, err := ctrl.admin.ListProducts(c.Request.Context(), filter)
	if err != nil {
		handleError(c, "admin list products", err)
		return
	}
	respondPage(c, i18n.KeyOK, page.Items, &page.Pagination)
}

// @Summary Product detail (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product id"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.Response
// @Router /admin/products/{id} [get]
func (ctrl *AdminProductController) GetProductByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.admin.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleError(c, "admin get product", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, product)
}

// @Summary Create product
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProductInput true "Product"
// @Success 201 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /admin/products [post]
func (ctrl *AdminProductController) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFailed(c, err)
		return
	}

	product, err := ctrl.admin.CreateProduct(c.Request.Context(), in)
	if err != nil {
		handleError(c, "create product", err)
		return
	}
	respond(c, http.StatusCreated, i18n.KeyProductCreated, product)
}

// @Summary Update product
// @Description Partial update; keys outside the patch whitelist are rejected
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product id"
// @Param request body models.ProductPatch true "Fields to change"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /admin/products/{id} [put]
func (ctrl *AdminProductController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch models.ProductPatch
	if err := bindStrictJSON(c, &patch); err != nil {
		bindFailed(c, err)
		return
	}

	product, err := ctrl.admin.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		handleError(c, "update product", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyProductUpdated, product)
}

// @Summary Deactivate product
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product id"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /admin/products/{id} [delete]
func (ctrl *AdminProductController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.admin.DeleteProduct(c.Request.Context(), id); err != nil {
		handleError(c, "delete product", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyProductDeleted, nil)
}

// @Summary Upload product image
// @Description The first image of a product becomes its primary image
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product id"
// @Param image formData file true "Image file (jpg, png, gif, webp)"
// @Param alt_text formData string false "Alternative text"
// @Success 201 {object} models.Response{data=models.ProductImage}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /admin/products/{id}/images [post]
func (ctrl *AdminProductController) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, i18n.KeyInvalidImage)
		return
	}

	img, err := ctrl.admin.UploadImage(c.Request.Context(), id, file, c.PostForm("alt_text"))
	if err != nil {
		handleError(c, "upload image", err)
		return
	}
	respond(c, http.StatusCreated, i18n.KeyImageUploaded, img)
}
