package controllers

import (
	"net/http"
	"pc-store/i18n"
	"pc-store/middleware"
	"pc-store/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

// @Summary List categories
// @Description Category tree with active product counts
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Category}
// @Router /categories [get]
func (ctrl *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := ctrl.catalog.ListCategories(c.Request.Context(), middleware.Lang(c))
	if err != nil {
		handleError(c, "list categories", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, categories)
}

// @Summary Category detail
// @Tags Categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} models.Response{data=models.Category}
// @Failure 404 {object} models.Response
// @Router /categories/{slug} [get]
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	category, err := ctrl.catalog.GetCategory(c.Request.Context(), c.Param("slug"), middleware.Lang(c))
	if err != nil {
		handleError(c, "get category", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, category)
}

// @Summary List brands
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Brand}
// @Router /brands [get]
func (ctrl *CategoryController) GetBrands(c *gin.Context) {
	brands, err := ctrl.catalog.ListBrands(c.Request.Context())
	if err != nil {
		handleError(c, "list brands", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, brands)
}
