package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestEstimateGet(t *testing.T) {
	env := newTestEnv(t)
	h := &EstimateHTTP{}

	rec, c := env.doJSONRequest(http.MethodGet, "/estimate?deviceType=laptop&condition=good", nil)
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DeviceType     string  `json:"deviceType"`
		Condition      string  `json:"condition"`
		EstimatedPrice float64 `json:"estimatedPrice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "laptop", resp.DeviceType)
	require.Equal(t, "good", resp.Condition)
	require.GreaterOrEqual(t, resp.EstimatedPrice, 157.0)
	require.LessOrEqual(t, resp.EstimatedPrice, 192.0)
}

func TestEstimateGet_MissingParams(t *testing.T) {
	env := newTestEnv(t)
	h := &EstimateHTTP{}

	_, c := env.doJSONRequest(http.MethodGet, "/estimate?deviceType=laptop", nil)
	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}
