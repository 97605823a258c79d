package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

// AuditHandler exposes the audit trail to the admin panel.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

type listAuditResponse struct {
	Data       []*domain.AuditEvent `json:"data"`
	Pagination paginationResponse   `json:"pagination"`
}

// List handles GET /v1/admin/audit, newest first.
//
// @Summary      List audit events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  query     string  false  "Filter by username"
// @Param        action    query     string  false  "Filter by action"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listAuditResponse
// @Failure      403       {object}  map[string]string
// @Router       /v1/admin/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	page := queryInt(c, "page")
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit")
	if limit < 1 || limit > 100 {
		limit = 50
	}

	events, total, err := h.repo.List(c.Request().Context(), ports.ListAuditFilter{
		Username: c.QueryParam("username"),
		Action:   c.QueryParam("action"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return c.JSON(http.StatusOK, listAuditResponse{
		Data: events,
		Pagination: paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}
