package controllers

import (
	"net/http"
	"pc-store/i18n"
	"pc-store/middleware"
	"pc-store/models"
	"pc-store/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// @Summary Register
// @Description Create a customer account and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Account details"
// @Success 201 {object} models.Response{data=models.AuthResult}
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := ctrl.auth.Register(c.Request.Context(), req, middleware.Lang(c))
	if err != nil {
		handleError(c, "register", err)
		return
	}
	respond(c, http.StatusCreated, i18n.KeyRegistered, result)
}

// @Summary Login
// @Description Sign in with e-mail and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.Response{data=models.AuthResult}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, "login", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyLoggedIn, result)
}

// @Summary Google sign-in
// @Description Exchange a Google ID token for a bearer token, creating or linking the account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} models.Response{data=models.AuthResult}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Router /auth/google [post]
func (ctrl *AuthController) Google(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := ctrl.auth.LoginWithGoogle(c.Request.Context(), req, middleware.Lang(c))
	if err != nil {
		handleError(c, "google login", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyLoggedIn, result)
}

// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.User}
// @Failure 401 {object} models.Response
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.auth.Me(c.Request.Context(), middleware.CurrentUser(c).UserID)
	if err != nil {
		handleError(c, "me", err)
		return
	}
	respond(c, http.StatusOK, i18n.KeyOK, user)
}

// @Summary Logout
// @Description Tokens are stateless; the client discards its token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	respond(c, http.StatusOK, i18n.KeyLoggedOut, nil)
}
