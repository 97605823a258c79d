package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasseeashil-ctrl/intel-platform/internal/api/metrics"
	"github.com/kasseeashil-ctrl/intel-platform/internal/api/middleware"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

// IncidentHandler handles HTTP requests for security incidents.
type IncidentHandler struct {
	service ports.IncidentService
}

func NewIncidentHandler(service ports.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

type createIncidentRequest struct {
	Date         string `json:"date"`
	IncidentType string `json:"incident_type" validate:"required"`
	Severity     string `json:"severity"      validate:"required"`
	Status       string `json:"status"`
	Description  string `json:"description"   validate:"required"`
	ReportedBy   string `json:"reported_by"`
}

type updateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type listIncidentsResponse struct {
	Data       []*domain.Incident `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /v1/incidents.
//
// @Summary      Record a security incident
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIncidentRequest  true  "Incident details"
// @Success      201   {object}  domain.Incident
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/incidents [post]
func (h *IncidentHandler) Create(c echo.Context) error {
	var req createIncidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	incident, err := h.service.Create(c.Request().Context(), middleware.Principal(c), ports.CreateIncidentInput{
		Date:         req.Date,
		IncidentType: req.IncidentType,
		Severity:     req.Severity,
		Status:       req.Status,
		Description:  req.Description,
		ReportedBy:   req.ReportedBy,
	})
	if err != nil {
		return err
	}

	metrics.RecordsCreatedTotal.WithLabelValues(domain.DomainCybersecurity).Inc()

	return c.JSON(http.StatusCreated, incident)
}

// Get handles GET /v1/incidents/:id.
//
// @Summary      Get an incident
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Incident ID"
// @Success      200  {object}  domain.Incident
// @Failure      404  {object}  map[string]string
// @Router       /v1/incidents/{id} [get]
func (h *IncidentHandler) Get(c echo.Context) error {
	incident, err := h.service.Get(c.Request().Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, incident)
}

// List handles GET /v1/incidents with filter and paging query parameters.
//
// @Summary      List incidents
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        severity  query     string  false  "Filter by severity"
// @Param        status    query     string  false  "Filter by status"
// @Param        type      query     string  false  "Filter by incident type"
// @Param        search    query     string  false  "Partial match on type or description"
// @Param        from      query     string  false  "Date lower bound (YYYY-MM-DD)"
// @Param        to        query     string  false  "Date upper bound (YYYY-MM-DD)"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listIncidentsResponse
// @Router       /v1/incidents [get]
func (h *IncidentHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), middleware.Principal(c), ports.ListIncidentsInput{
		Severity:     c.QueryParam("severity"),
		Status:       c.QueryParam("status"),
		IncidentType: c.QueryParam("type"),
		Search:       c.QueryParam("search"),
		DateFrom:     c.QueryParam("from"),
		DateTo:       c.QueryParam("to"),
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listIncidentsResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// UpdateStatus handles PATCH /v1/incidents/:id/status.
//
// @Summary      Update incident status
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                       true  "Incident ID"
// @Param        body  body      updateIncidentStatusRequest  true  "New status"
// @Success      200   {object}  domain.Incident
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/incidents/{id}/status [patch]
func (h *IncidentHandler) UpdateStatus(c echo.Context) error {
	var req updateIncidentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	incident, err := h.service.UpdateStatus(c.Request().Context(), middleware.Principal(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, incident)
}

// Stats handles GET /v1/incidents/stats/summary.
//
// @Summary      Incident dashboard counters
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.IncidentStats
// @Router       /v1/incidents/stats/summary [get]
func (h *IncidentHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context(), middleware.Principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
