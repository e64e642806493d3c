package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/candyline/sweet-shop/internal/service/search"
)

// SearchHandler serves the fuzzy search path backed by Elasticsearch.
// Exact substring filtering lives on GET /api/sweets.
type SearchHandler struct {
	ES *elasticsearch.Client
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	sweets, err := search.Search(c.Request().Context(), h.ES, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"sweets": sweets})
}
