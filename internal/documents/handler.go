package documents

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"intellidocs-backend/internal/extract"
	"intellidocs-backend/internal/llm"
	"intellidocs-backend/internal/shared/server/middleware"
	"intellidocs-backend/internal/shared/server/respond"
	"intellidocs-backend/internal/shared/telemetry"
)

// maxUploadBytes bounds the multipart body before any parsing happens.
const maxUploadBytes = 20 << 20

// Handler exposes document routes. Every route requires an authenticated
// user; the router mounts it behind the auth middleware.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/documents", h.upload)
	r.GET("/documents", h.list)
	r.GET("/documents/:id", h.get)
	r.GET("/documents/:id/file", h.download)
	r.PUT("/documents/:id", h.update)
	r.DELETE("/documents/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	if ownerID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field 'file' is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}

	filename := SanitizeFilename(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	doc, err := h.Service.Upload(c.Request.Context(), ownerID, filename, data, contentType)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	c.Set("documentId", doc.ID)
	c.JSON(http.StatusCreated, toResponse(doc))
}

func (h *Handler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedMediaType):
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF uploads are supported", nil)
	case errors.Is(err, extract.ErrNoText):
		respond.Error(c, http.StatusBadRequest, "empty_document", "the document contains no extractable text", nil)
	case errors.Is(err, extract.ErrUnreadable):
		respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "the document could not be parsed", nil)
	case errors.Is(err, llm.ErrNotConfigured), errors.Is(err, llm.ErrUnavailable):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "document analysis is unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "could not process the document", nil)
	}
}

func (h *Handler) list(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	docs, err := h.Service.List(c.Request.Context(), ownerID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "could not list documents", nil)
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	doc, err := h.Service.GetByID(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(doc))
}

func (h *Handler) download(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	doc, rc, err := h.Service.OpenFile(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("document.download_interrupted", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
	}
}

type updateRequest struct {
	Title    *string   `json:"title"`
	Summary  *string   `json:"summary"`
	Keywords *[]string `json:"keywords"`
}

func (h *Handler) update(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	patch := AnalysisPatch{Title: req.Title, Summary: req.Summary, Keywords: req.Keywords}
	doc, err := h.Service.UpdateByID(c.Request.Context(), c.Param("id"), ownerID, patch)
	if err != nil {
		if errors.Is(err, ErrEmptyPatch) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "no fields to update", nil)
			return
		}
		h.lookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(doc))
}

func (h *Handler) delete(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	if err := h.Service.DeleteByID(c.Request.Context(), c.Param("id"), ownerID); err != nil {
		h.lookupError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) lookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document id", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "could not access the document", nil)
	}
}
