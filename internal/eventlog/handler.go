package eventlog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
	"docvault-backend/internal/users"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/eventlogs", h.list)
}

func (h *Handler) list(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	role := users.Role(middleware.UserRoleFromContext(c))

	logs, err := h.Svc.List(c.Request.Context(), callerID, role)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list event logs", nil)
		return
	}

	out := make([]Dto, 0, len(logs))
	for _, l := range logs {
		out = append(out, toDto(l))
	}
	respond.OK(c, out)
}
