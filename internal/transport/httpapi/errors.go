package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// errorResponse — тело ошибки API.
type errorResponse struct {
	Error string `json:"error"`
}

// respondError переводит доменные ошибки в HTTP-статусы.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "order not found"})
	case errors.Is(err, domain.ErrStatusInvalid),
		errors.Is(err, domain.ErrItemRequired),
		errors.Is(err, domain.ErrPriceInvalid):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
