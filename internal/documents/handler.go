package documents

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
	"docvault-backend/internal/shared/telemetry"
	"docvault-backend/internal/users"
)

const maxUploadBytes = 25 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id/download", h.download)
	rg.DELETE("/documents/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if file.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds size limit", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	defer src.Close()

	doc, validationErrors, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		Name:        file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        src,
		UserID:      middleware.UserIDFromContext(c),
		Role:        users.Role(middleware.UserRoleFromContext(c)),
		ProcessType: c.Query("type"),
	})
	if err != nil {
		h.respondServiceError(c, err, "upload failed")
		return
	}

	respond.JSON(c, http.StatusCreated, toDto(doc, validationErrors))
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.ListByUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	out := make([]Dto, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDto(doc, nil))
	}
	respond.OK(c, out)
}

func (h *Handler) download(c *gin.Context) {
	doc, body, err := h.Svc.Download(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		h.respondServiceError(c, err, "download failed")
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("Content-Type", doc.ContentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		telemetry.Warn("documents.download_interrupted", map[string]any{
			"document_id": doc.ID,
			"err":         err.Error(),
		})
	}
}

func (h *Handler) delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		h.respondServiceError(c, err, "delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrPermissionDenied):
		respond.Error(c, http.StatusForbidden, "forbidden", "you do not have access to this resource", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
