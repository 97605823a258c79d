package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasseeashil-ctrl/intel-platform/internal/api/metrics"
	"github.com/kasseeashil-ctrl/intel-platform/internal/api/middleware"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

// TicketHandler handles HTTP requests for IT support tickets.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

type createTicketRequest struct {
	Priority    string `json:"priority"    validate:"required"`
	Category    string `json:"category"    validate:"required"`
	Subject     string `json:"subject"     validate:"required"`
	Description string `json:"description" validate:"required"`
	CreatedDate string `json:"created_date"`
	AssignedTo  string `json:"assigned_to"`
}

type assignTicketRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required"`
}

type listTicketsResponse struct {
	Data       []*domain.Ticket   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /v1/tickets.
//
// @Summary      Open a support ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket details"
// @Success      201   {object}  domain.Ticket
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.service.Create(c.Request().Context(), middleware.Principal(c), ports.CreateTicketInput{
		Priority:    req.Priority,
		Category:    req.Category,
		Subject:     req.Subject,
		Description: req.Description,
		CreatedDate: req.CreatedDate,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}

	metrics.RecordsCreatedTotal.WithLabelValues(domain.DomainITOperations).Inc()

	return c.JSON(http.StatusCreated, ticket)
}

// Get handles GET /v1/tickets/:id.
//
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      404  {object}  map[string]string
// @Router       /v1/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	ticket, err := h.service.Get(c.Request().Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// List handles GET /v1/tickets.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        priority     query     string  false  "Filter by priority"
// @Param        status       query     string  false  "Filter by status"
// @Param        category     query     string  false  "Filter by category"
// @Param        assigned_to  query     string  false  "Filter by assignee"
// @Param        search       query     string  false  "Partial match on subject or description"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  listTicketsResponse
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), middleware.Principal(c), ports.ListTicketsInput{
		Priority:   c.QueryParam("priority"),
		Status:     c.QueryParam("status"),
		Category:   c.QueryParam("category"),
		AssignedTo: c.QueryParam("assigned_to"),
		Search:     c.QueryParam("search"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listTicketsResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Assign handles PATCH /v1/tickets/:id/assign.
//
// @Summary      Assign a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Ticket ID"
// @Param        body  body      assignTicketRequest  true  "Assignee"
// @Success      200   {object}  domain.Ticket
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tickets/{id}/assign [patch]
func (h *TicketHandler) Assign(c echo.Context) error {
	var req assignTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.service.Assign(c.Request().Context(), middleware.Principal(c), c.Param("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Resolve handles PATCH /v1/tickets/:id/resolve.
//
// @Summary      Resolve a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      404  {object}  map[string]string
// @Router       /v1/tickets/{id}/resolve [patch]
func (h *TicketHandler) Resolve(c echo.Context) error {
	ticket, err := h.service.Resolve(c.Request().Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Close handles PATCH /v1/tickets/:id/close.
//
// @Summary      Close a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      404  {object}  map[string]string
// @Router       /v1/tickets/{id}/close [patch]
func (h *TicketHandler) Close(c echo.Context) error {
	ticket, err := h.service.Close(c.Request().Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Stats handles GET /v1/tickets/stats/summary.
//
// @Summary      Ticket dashboard counters
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.TicketStats
// @Router       /v1/tickets/stats/summary [get]
func (h *TicketHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context(), middleware.Principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
