package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/cuongbtq/jobboard-be/internal/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const publishTimeout = 2 * time.Second

// ListJobs handles GET /api/v1/jobs
// Lists jobs with optional filtering, sorting and pagination
func (h *JobHandler) ListJobs(c *gin.Context) {
	h.logger.Debug("ListJobs called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("Invalid query parameters", slog.Any("error", err))
		c.JSON(http.StatusBadRequest, dto.Response{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid query parameters",
			Error:      &dto.ErrorDetail{Reason: err.Error()},
		})
		return
	}

	page := pagination.Parse(req.Page, req.Limit)

	filter, err := parseJobFilter(&req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	ctx, cancel := h.queryContext(c.Request.Context())
	defer cancel()

	result, err := h.jobs.FindAll(ctx, page.Page, page.Limit, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	meta := pagination.Calculate(result.Page, result.Limit, result.Total)
	c.JSON(http.StatusOK, dto.Response{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    "Jobs retrieved successfully",
		Data:       result.Data,
		Pagination: &meta,
	})
}

// GetJob handles GET /api/v1/jobs/:job_id
// Returns a single job and records a view event
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	id, err := uuid.Parse(jobID)
	if err != nil {
		h.logger.Warn("Invalid job_id format", slog.String("job_id", jobID), slog.Any("error", err))
		c.JSON(http.StatusBadRequest, dto.Response{
			StatusCode: http.StatusBadRequest,
			Message:    "job_id must be a valid UUID",
			Error:      &dto.ErrorDetail{Param: "job_id", Value: jobID, Reason: err.Error()},
		})
		return
	}

	ctx, cancel := h.queryContext(c.Request.Context())
	defer cancel()

	job, err := h.jobs.FindByID(ctx, id.String())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.publishViews {
		h.publishView(c.Request.Context(), job.ID)
	}

	c.JSON(http.StatusOK, dto.Response{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    "Job retrieved successfully",
		Data:       job,
	})
}

// publishView is best effort: a broker outage never fails the read
func (h *JobHandler) publishView(parent context.Context, jobID string) {
	body, err := json.Marshal(dto.JobViewedEvent{JobID: jobID})
	if err != nil {
		h.logger.Error("Failed to encode job view event", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), publishTimeout)
	defer cancel()

	if err := h.events.PublishWithRetry(ctx, body, "application/json"); err != nil {
		h.logger.Warn("Failed to publish job view event",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			h.logger.Error("Health check failed", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": h.service,
				"error":   err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}
