package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recyclemart/ewaste-market/internal/pricing"
)

type EstimateHTTP struct{}

func (h *EstimateHTTP) Get(c echo.Context) error {
	deviceType := c.QueryParam("deviceType")
	condition := c.QueryParam("condition")
	if deviceType == "" || condition == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "deviceType and condition are required")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"deviceType":     deviceType,
		"condition":      condition,
		"estimatedPrice": pricing.Estimate(deviceType, condition),
	})
}
