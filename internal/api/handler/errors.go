package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is advertised when the job store is unavailable
const retryAfterSeconds = 5

// writeError maps domain errors onto HTTP status codes
func (h *JobHandler) writeError(c *gin.Context, err error) {
	var invalid *domain.InvalidFilterError

	switch {
	case errors.As(err, &invalid):
		detail := &dto.ErrorDetail{Param: invalid.Param, Value: invalid.Value, Reason: invalid.Error()}
		if invalid.Err != nil {
			detail.Reason = invalid.Err.Error()
		}
		h.respondError(c, http.StatusBadRequest, "Invalid value for "+invalid.Param, detail)

	case errors.Is(err, domain.ErrJobNotFound):
		h.respondError(c, http.StatusNotFound, "Job not found", nil)

	case errors.Is(err, domain.ErrStorageUnavailable):
		h.logger.Error("Job store unavailable",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		h.respondError(c, http.StatusServiceUnavailable, "Job store temporarily unavailable", nil)

	default:
		h.logger.Error("Unexpected error",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		h.respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func (h *JobHandler) respondError(c *gin.Context, status int, message string, detail *dto.ErrorDetail) {
	c.JSON(status, dto.Response{
		StatusCode: status,
		Message:    message,
		Error:      detail,
	})
}
