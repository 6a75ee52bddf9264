package controllers

import (
	"net/http"
	"pc-store/i18n"
	"pc-store/middleware"
	"pc-store/models"
	"pc-store/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// @Summary Checkout
// @Description Turns the session's cart into an order and empties the cart. Guests must send an e-mail.
// @Tags Orders
// @Accept json
// @Produce json
// @Param X-Session-Token header string true "Cart session token"
// @Param request body models.CreateOrderRequest true "Checkout details"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	viewer := middleware.CurrentViewer(c)
	order, err := ctrl.orders.Create(c.Request.Context(), viewer, req, middleware.Lang(c))
	if err != nil {
		handleError(c, "create order", err)
		return
	}
	c.Header(middleware.SessionHeader, viewer.SessionToken)
	respond(c, http.StatusCreated, i18n.KeyOrderCreated, order)
}

// @Summary Order history
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.Response{data=[]models.Order}
// @Failure 401 {object} models.Response
// @Router /orders [get]
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}

	orders, pagination, err := ctrl.orders.ListForUser(c.Request.Context(), middleware.CurrentUser(c).UserID, q.Page, q.Limit)
	if err != nil {
		handleError(c, "list orders", err)
		return
	}
	respondPage(c, i18n.KeyOK, orders, pagination)
}

// @Summary Order detail
// @Description Visible to the owning user, the session that placed it and admins
// @Tags Orders
// @Produce json
// @Param X-Session-Token header string false "Cart session token"
// @Param id path int true "Order id"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.Response
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orders.Get(c.Request.Context(), id, middleware.CurrentViewer(c))
	if err != nil {
		handleError(c, "get order", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, order)
}

// @Summary Simulate order progress
// @Description Moves the order exactly one step: pending, confirmed, processing, shipped, delivered
// @Tags Orders
// @Produce json
// @Param X-Session-Token header string false "Cart session token"
// @Param id path int true "Order id"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /orders/{id}/status [put]
func (ctrl *OrderController) AdvanceStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orders.Advance(c.Request.Context(), id, middleware.CurrentViewer(c))
	if err != nil {
		handleError(c, "advance order", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOrderStatusUpdated, order)
}

// @Summary List orders
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Order status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.Response{data=[]models.Order}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /admin/orders [get]
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindFailed(c, err)
		return
	}

	orders, pagination, err := ctrl.orders.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, "admin list orders", err)
		return
	}
	respondPage(c, i18n.KeyOK, orders, pagination)
}

// @Summary Order detail (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order id"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.Response
// @Router /admin/orders/{id} [get]
func (ctrl *OrderController) AdminGetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orders.AdminGet(c.Request.Context(), id)
	if err != nil {
		handleError(c, "admin get order", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, order)
}

// @Summary Set order status
// @Description Sets any valid status, including cancelled
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order id"
// @Param request body models.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /admin/orders/{id}/status [put]
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	order, err := ctrl.orders.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handleError(c, "admin set order status", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOrderStatusUpdated, order)
}
