package response

import (
	"errors"
	"net/http"

	"checkout-bridge/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the flat error body returned to clients. Upstream
// diagnostic detail never appears here; it stays in server-side logs.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OK sends a 200 response with the payload as-is.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error response. *apperror.AppError values map to their
// declared status and client-safe message; anything else becomes a 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
