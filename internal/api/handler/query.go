package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// paginationResponse is the paging envelope shared by all list endpoints.
type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// queryInt reads an integer query parameter, returning 0 when absent or
// malformed; the service layer applies defaults and caps.
func queryInt(c echo.Context, name string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
