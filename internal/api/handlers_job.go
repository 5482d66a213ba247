// handlers_job.go - Async batch extraction job handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invoice-agent/backend/internal/models"
)

// JobHandlerImpl implements the JobHandler interface
type JobHandlerImpl struct {
	jobs JobManager
}

// NewJobHandler creates a new job handler instance
func NewJobHandler(jobs JobManager) JobHandler {
	return &JobHandlerImpl{jobs: jobs}
}

// HandleStartJob accepts a batch request and starts background processing
func (h *JobHandlerImpl) HandleStartJob(c echo.Context) error {
	var req models.OCRBatchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if len(req.Files) == 0 {
		return NewValidationError("files")
	}

	job := h.jobs.StartJob(req.Files)
	return c.JSON(http.StatusAccepted, job)
}

// HandleJobStatus reports progress and, once finished, the results
func (h *JobHandlerImpl) HandleJobStatus(c echo.Context) error {
	id := c.Param("id")

	job, ok := h.jobs.GetJob(id)
	if !ok {
		return NewNotFoundError("job", id)
	}
	return c.JSON(http.StatusOK, job)
}
