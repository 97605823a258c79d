package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasseeashil-ctrl/intel-platform/internal/api/metrics"
	"github.com/kasseeashil-ctrl/intel-platform/internal/api/middleware"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

// DatasetHandler handles HTTP requests for dataset metadata.
type DatasetHandler struct {
	service ports.DatasetService
}

func NewDatasetHandler(service ports.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

type createDatasetRequest struct {
	Name        string  `json:"dataset_name" validate:"required"`
	Category    string  `json:"category"     validate:"required"`
	Source      string  `json:"source"`
	LastUpdated string  `json:"last_updated"`
	RecordCount int64   `json:"record_count"`
	FileSizeMB  float64 `json:"file_size_mb"`
}

type datasetResponse struct {
	*domain.Dataset
	SizeGB  float64 `json:"size_gb"`
	IsLarge bool    `json:"is_large"`
}

type listDatasetsResponse struct {
	Data       []*domain.Dataset  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /v1/datasets.
//
// @Summary      Register dataset metadata
// @Tags         datasets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDatasetRequest  true  "Dataset details"
// @Success      201   {object}  datasetResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/datasets [post]
func (h *DatasetHandler) Create(c echo.Context) error {
	var req createDatasetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dataset, err := h.service.Create(c.Request().Context(), middleware.Principal(c), ports.CreateDatasetInput{
		Name:        req.Name,
		Category:    req.Category,
		Source:      req.Source,
		LastUpdated: req.LastUpdated,
		RecordCount: req.RecordCount,
		FileSizeMB:  req.FileSizeMB,
	})
	if err != nil {
		return err
	}

	metrics.RecordsCreatedTotal.WithLabelValues(domain.DomainDataScience).Inc()

	return c.JSON(http.StatusCreated, datasetResponse{
		Dataset: dataset,
		SizeGB:  dataset.SizeGB(),
		IsLarge: dataset.IsLarge(),
	})
}

// Get handles GET /v1/datasets/:id.
//
// @Summary      Get dataset metadata
// @Tags         datasets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dataset ID"
// @Success      200  {object}  datasetResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/datasets/{id} [get]
func (h *DatasetHandler) Get(c echo.Context) error {
	dataset, err := h.service.Get(c.Request().Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, datasetResponse{
		Dataset: dataset,
		SizeGB:  dataset.SizeGB(),
		IsLarge: dataset.IsLarge(),
	})
}

// List handles GET /v1/datasets.
//
// @Summary      List datasets
// @Tags         datasets
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Filter by category"
// @Param        source    query     string  false  "Filter by source"
// @Param        search    query     string  false  "Partial match on name"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listDatasetsResponse
// @Router       /v1/datasets [get]
func (h *DatasetHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), middleware.Principal(c), ports.ListDatasetsInput{
		Category: c.QueryParam("category"),
		Source:   c.QueryParam("source"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listDatasetsResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Stats handles GET /v1/datasets/stats/summary.
//
// @Summary      Dataset dashboard counters
// @Tags         datasets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DatasetStats
// @Router       /v1/datasets/stats/summary [get]
func (h *DatasetHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context(), middleware.Principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
