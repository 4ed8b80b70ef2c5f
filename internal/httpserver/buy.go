package httpserver

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/repo"
	"github.com/recyclemart/ewaste-market/internal/search"
	"github.com/recyclemart/ewaste-market/internal/service"
	"github.com/recyclemart/ewaste-market/internal/transport"
	"github.com/recyclemart/ewaste-market/internal/util"
)

const defaultMaxPrice = 1_000_000

type BuyHTTP struct {
	Svc *service.ListingService
	ES  *elasticsearch.Client
}

// List serves the public catalog: pending items only, inclusive price
// bounds, newest first.
func (h *BuyHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "buy.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize))

	filters := repo.BuyFilters{
		DeviceType: c.QueryParam("deviceType"),
		Condition:  c.QueryParam("condition"),
		Search:     c.QueryParam("search"),
		MinPrice:   util.ParseFloatDefault(c.QueryParam("minPrice"), 0),
		MaxPrice:   util.ParseFloatDefault(c.QueryParam("maxPrice"), defaultMaxPrice),
		Offset:     offset,
		Limit:      limit,
	}

	total, items, err := h.Svc.QueryBuyable(ctx, filters)
	if err != nil {
		l.Error("buy list failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch items")
	}

	return c.JSON(http.StatusOK, transport.BuyResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: util.TotalPages(total, limit),
	})
}

func (h *BuyHTTP) Search(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	from, size := util.Calculate(page, util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize))

	ctx := c.Request().Context()
	total, items, err := search.Items(ctx, h.ES, search.ItemIndex, q, from, size)
	if err != nil {
		logging.FromContext(ctx).Error("buy search failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, map[string]any{"total": total, "items": items})
}

// Transition flips an item along its lifecycle (e.g. pending ->
// listed when a buyer claims it). Requires a valid token, any role.
func (h *BuyHTTP) Transition(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "buy.transition")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Transition(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		case errors.Is(err, service.ErrInvalidTransition):
			l.Warn("transition rejected", "status", 409, "item_id", id.String(), "to", req.Status)
			return echo.NewHTTPError(http.StatusConflict, "invalid status transition")
		default:
			l.Error("transition failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update item")
		}
	}

	return c.JSON(http.StatusOK, item)
}
