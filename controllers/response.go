package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/services"
	"github.com/kendall-kelly/petnic-studio-api/utils"
)

// respondError writes the client-facing form of err. Errors without a known
// kind are logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logging.FromContext(c.Request.Context()).Error("request failed",
			"route", c.FullPath(),
			"error", err,
		)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	message := err.Error()
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	c.JSON(status, gin.H{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON decodes the request body into dst, answering 400 on failure.
// An empty body counts as "No data provided".
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return false
	}
	return true
}

// paramID parses a positive integer path parameter, answering 400 otherwise
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter. Missing or malformed values
// fall back to def.
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

func pageRequest(c *gin.Context) services.PageRequest {
	return services.PageRequest{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", utils.DefaultPerPage),
		Search:  c.Query("search"),
	}
}

// pageBody renders a page under key together with its pagination metadata
func pageBody[T, R any](key string, page services.Page[T], items []R) gin.H {
	return gin.H{
		key:            items,
		"total":        page.Total,
		"pages":        page.Pages,
		"current_page": page.CurrentPage,
		"per_page":     page.PerPage,
	}
}
