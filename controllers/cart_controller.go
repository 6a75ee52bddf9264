package controllers

import (
	"net/http"
	"pc-store/i18n"
	"pc-store/middleware"
	"pc-store/models"
	"pc-store/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

func writeCart(c *gin.Context, key string, cart *models.Cart) {
	if cart.SessionToken != "" {
		c.Header(middleware.SessionHeader, cart.SessionToken)
	}
	respond(c, http.StatusOK, key, cart)
}

// @Summary Get cart
// @Description Lines and totals of the session's cart; empty without a live session
// @Tags Cart
// @Produce json
// @Param X-Session-Token header string false "Cart session token"
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.cart.Get(c.Request.Context(), middleware.SessionToken(c), middleware.Lang(c))
	if err != nil {
		handleError(c, "get cart", err)
		return
	}
	writeCart(c, i18n.KeyOK, cart)
}

// @Summary Add to cart
// @Description Adds a product (and optional variant); an existing line is incremented. Creates a session when needed.
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-Token header string false "Cart session token"
// @Param request body models.AddCartItemRequest true "Item"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	cart, err := ctrl.cart.AddItem(c.Request.Context(), middleware.SessionToken(c), middleware.CurrentUserID(c), req, middleware.Lang(c))
	if err != nil {
		handleError(c, "add cart item", err)
		return
	}
	writeCart(c, i18n.KeyCartUpdated, cart)
}

// @Summary Update cart line
// @Description Sets the quantity of a line; 0 removes it
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-Token header string false "Cart session token"
// @Param id path int true "Cart line id"
// @Param request body models.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /cart/items/{id} [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	lineID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	cart, err := ctrl.cart.UpdateItem(c.Request.Context(), middleware.SessionToken(c), lineID, *req.Quantity, middleware.Lang(c))
	if err != nil {
		handleError(c, "update cart item", err)
		return
	}
	writeCart(c, i18n.KeyCartUpdated, cart)
}

// @Summary Remove cart line
// @Tags Cart
// @Produce json
// @Param X-Session-Token header string false "Cart session token"
// @Param id path int true "Cart line id"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 404 {object} models.Response
// @Router /cart/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	lineID, ok := paramID(c, "id")
	if !ok {
		return
	}

	cart, err := ctrl.cart.RemoveItem(c.Request.Context(), middleware.SessionToken(c), lineID, middleware.Lang(c))
	if err != nil {
		handleError(c, "remove cart item", err)
		return
	}
	writeCart(c, i18n.KeyCartUpdated, cart)
}

// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Param X-Session-Token header string false "Cart session token"
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	cart, err := ctrl.cart.Clear(c.Request.Context(), middleware.SessionToken(c), middleware.CurrentUserID(c), middleware.Lang(c))
	if err != nil {
		handleError(c, "clear cart", err)
		return
	}
	writeCart(c, i18n.KeyCartCleared, cart)
}
