// handlers_ocr.go - Text extraction handlers
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/invoice-agent/backend/internal/logger"
	"github.com/invoice-agent/backend/internal/models"
	"github.com/invoice-agent/backend/internal/ocr"
	"github.com/invoice-agent/backend/internal/storage"
	"github.com/invoice-agent/backend/internal/vision"
)

// OCRHandlerImpl implements the OCRHandler interface
type OCRHandlerImpl struct {
	extractor   Extractor
	extractions ExtractionRepository
	store       storage.Store
}

// NewOCRHandler creates a new OCR handler instance
func NewOCRHandler(extractor Extractor, extractions ExtractionRepository, store storage.Store) OCRHandler {
	return &OCRHandlerImpl{
		extractor:   extractor,
		extractions: extractions,
		store:       store,
	}
}

// HandleExtractText extracts text from a single URL
func (h *OCRHandlerImpl) HandleExtractText(c echo.Context) error {
	var req models.OCRRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.ImageURL == "" {
		return NewValidationError("image_url")
	}
	if req.FileType == "" {
		return NewValidationError("file_type")
	}

	result, err := h.extractor.ExtractFromURL(c.Request().Context(), req.ImageURL, req.FileType)
	if err != nil {
		return h.extractionError(err)
	}

	h.record(c.Request().Context(), &models.Extraction{
		SourceURL:  req.ImageURL,
		MimeType:   req.FileType,
		Text:       result.Text,
		Width:      result.Width,
		Height:     result.Height,
		Paragraphs: result.Paragraphs,
	})

	return c.JSON(http.StatusOK, result)
}

// HandleExtractBatch extracts text from several files in one request
func (h *OCRHandlerImpl) HandleExtractBatch(c echo.Context) error {
	var req models.OCRBatchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if len(req.Files) == 0 {
		return NewValidationError("files")
	}

	results := h.extractor.ExtractBatch(c.Request().Context(), req.Files)

	for _, r := range results {
		if !r.Success {
			continue
		}
		h.record(c.Request().Context(), &models.Extraction{
			SourceURL:  r.FileURL,
			Filename:   r.Filename,
			MimeType:   r.MimeType,
			Text:       r.Text,
			Width:      r.Width,
			Height:     r.Height,
			Paragraphs: r.Paragraphs,
		})
	}

	return c.JSON(http.StatusOK, models.OCRBatchResponse{Results: results})
}

// HandleExtractUpload accepts a multipart document upload and extracts
// its text. enhance=true runs the image pre-processing pipeline first.
func (h *OCRHandlerImpl) HandleExtractUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("missing multipart field: file", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return NewBadRequestError("unreadable upload", err)
	}
	defer src.Close()

	info, err := h.store.Save(fileHeader.Filename, src)
	if err != nil {
		return NewInternalError("failed to store upload", err)
	}

	data, err := h.store.Read(info.ID)
	if err != nil {
		return NewInternalError("failed to read stored upload", err)
	}

	fileType := fileHeader.Header.Get("Content-Type")
	if fileType == "" {
		fileType = http.DetectContentType(data)
	}

	if c.QueryParam("enhance") == "true" && fileType != "application/pdf" {
		enhanced, err := ocr.Enhance(data)
		if err != nil {
			return NewBadRequestError("could not enhance image", err)
		}
		data = enhanced
		fileType = "image/png"
	}

	result, err := h.extractor.ExtractFromBytes(c.Request().Context(), data, fileType)
	if err != nil {
		return h.extractionError(err)
	}

	h.record(c.Request().Context(), &models.Extraction{
		Filename:   fileHeader.Filename,
		MimeType:   fileType,
		Text:       result.Text,
		Width:      result.Width,
		Height:     result.Height,
		Paragraphs: result.Paragraphs,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"file":   info,
		"result": result,
	})
}

// HandleListUploads lists stored uploads, newest first
func (h *OCRHandlerImpl) HandleListUploads(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 20)
	if limit < 1 || limit > 100 {
		return NewValidationError("limit")
	}

	files, err := h.store.List(limit)
	if err != nil {
		return NewInternalError("failed to list uploads", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"files": files,
		"total": len(files),
	})
}

// HandleGetUpload serves a stored upload back to the client
func (h *OCRHandlerImpl) HandleGetUpload(c echo.Context) error {
	id := c.Param("id")

	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("upload", id)
	}
	data, err := h.store.Read(id)
	if err != nil {
		return NewInternalError("failed to read upload", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", info.Name))
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}

// HandleDeleteUpload removes a stored upload
func (h *OCRHandlerImpl) HandleDeleteUpload(c echo.Context) error {
	id := c.Param("id")

	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("upload", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleRecentExtractions lists the latest stored extraction records
func (h *OCRHandlerImpl) HandleRecentExtractions(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 20)
	if limit < 1 || limit > 100 {
		return NewValidationError("limit")
	}

	extractions, err := h.extractions.Recent(c.Request().Context(), limit)
	if err != nil {
		return NewInternalError("failed to list extractions", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"extractions": extractions,
		"total":       len(extractions),
	})
}

// HandleRecentExtractionsMsgpack serves the same listing msgpack-encoded
// for bandwidth-sensitive consumers.
func (h *OCRHandlerImpl) HandleRecentExtractionsMsgpack(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 20)
	if limit < 1 || limit > 100 {
		return NewValidationError("limit")
	}

	extractions, err := h.extractions.Recent(c.Request().Context(), limit)
	if err != nil {
		return NewInternalError("failed to list extractions", err)
	}

	data, err := msgpack.Marshal(extractions)
	if err != nil {
		return NewInternalError("failed to encode extractions", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// record persists an extraction; failures are logged, not surfaced, so
// a db hiccup never hides a successful OCR result.
func (h *OCRHandlerImpl) record(ctx context.Context, ext *models.Extraction) {
	if h.extractions == nil {
		return
	}
	if err := h.extractions.Insert(ctx, ext); err != nil {
		logger.Sugar.Errorw("failed to persist extraction", "error", err)
	}
}

func (h *OCRHandlerImpl) extractionError(err error) *APIError {
	if errors.Is(err, vision.ErrCredentialsMissing) {
		return NewCredentialsMissingError(err)
	}
	return NewInternalError("failed to process file", err)
}
