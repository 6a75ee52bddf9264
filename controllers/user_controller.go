package controllers

import (
	"net/http"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	admin *services.AdminService
}

func NewUserController(admin *services.AdminService) *UserController {
	return &UserController{admin: admin}
}

// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.Response{data=[]models.User}
// @Failure 403 {object} models.Response
// @Router /admin/users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}

	users, pagination, err := ctrl.admin.ListUsers(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		handleError(c, "list users", err)
		return
	}
	respondPage(c, i18n.KeyOK, users, pagination)
}

// @Summary Change user role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param request body models.UpdateUserRoleRequest true "Role"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /admin/users/{id}/role [put]
func (ctrl *UserController) UpdateUserRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := ctrl.admin.UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		handleError(c, "update user role", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyRoleUpdated, user)
}
