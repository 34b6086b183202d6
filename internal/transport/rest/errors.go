package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/booking"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

type ErrorBody struct {
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Fields  []string `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Message: message, Status: status}})
}

// respondServiceError writes the status for err's kind. Internal errors are
// logged and replaced by a generic message.
func (h *handler) respondServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	var trErr *booking.TimeRangeError
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &trErr):
		respondError(c, http.StatusBadRequest, trErr.Error())
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
			Message: vErr.Error(),
			Status:  http.StatusBadRequest,
			Fields:  vErr.Fields,
		}})
	case errors.Is(err, store.ErrIdempotencyConflict):
		respondError(c, http.StatusConflict, "This request key was already used for a different appointment.")
	case errors.Is(err, store.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "deadline exceeded")
	default:
		h.log.Error("request failed",
			slog.Any("err", err),
			slog.String("route", c.FullPath()),
			slog.String("request_id", c.GetString(requestIDKey)),
		)
		respondError(c, http.StatusInternalServerError, "Unknown Server Error")
	}
}
