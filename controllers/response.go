package controllers

import (
	"errors"
	"log"
	"net/http"
	"pc-store/i18n"
	"pc-store/middleware"
	"pc-store/models"
	"pc-store/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, status int, key string, data any) {
	c.JSON(status, models.Response{
		Success: true,
		Message: middleware.Translate(c, key),
		Data:    data,
	})
}

func respondPage(c *gin.Context, key string, data any, pagination *models.Pagination) {
	c.JSON(http.StatusOK, models.Response{
		Success:    true,
		Message:    middleware.Translate(c, key),
		Data:       data,
		Pagination: pagination,
	})
}

func respondError(c *gin.Context, status int, key string) {
	c.JSON(status, models.Response{
		Success: false,
		Error:   key,
		Message: middleware.Translate(c, key),
	})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the client error carried by err, or logs it and answers
// with a generic 500.
func handleError(c *gin.Context, op string, err error) {
	if e, ok := services.AsError(err); ok {
		respondError(c, statusFor(e.Kind), e.Key)
		return
	}
	log.Printf("%s: %v", op, err)
	respondError(c, http.StatusInternalServerError, i18n.KeyInternalError)
}

// bindFailed answers a binding error. Malformed JSON and validator failures
// are both the caller's fault.
func bindFailed(c *gin.Context, err error) {
	var unknown *unknownFieldError
	if errors.As(err, &unknown) {
		respondError(c, http.StatusBadRequest, i18n.KeyUnknownField)
		return
	}
	respondError(c, http.StatusBadRequest, i18n.KeyValidationFailed)
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, i18n.KeyInvalidID)
		return 0, false
	}
	return id, true
}

func pageQuery(c *gin.Context) (models.PageQuery, bool) {
	var q models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return q, false
	}
	return q, true
}
