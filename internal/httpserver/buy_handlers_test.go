package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/recyclemart/ewaste-market/internal/models"
	"github.com/recyclemart/ewaste-market/internal/transport"
)

func TestBuyList_OnlyPendingItems(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Seller", "seller@example.com", models.RoleUser)

	env.createItem(owner.ID, "smartphone", "apple", "good", models.ItemStatusPending, 84)
	env.createItem(owner.ID, "laptop", "lenovo", "good", models.ItemStatusPending, 175)
	env.createItem(owner.ID, "tablet", "samsung", "good", models.ItemStatusSold, 105)
	env.createItem(owner.ID, "laptop", "dell", "good", models.ItemStatusRemoved, 175)

	rec, c := env.doJSONRequest(http.MethodGet, "/buy", nil)
	require.NoError(t, env.Buy.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.BuyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp.Total)
	require.Len(t, resp.Items, 2)
	for _, item := range resp.Items {
		require.Equal(t, models.ItemStatusPending, item.Status)
	}
}

func TestBuyList_PriceBoundsInclusive(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Seller", "seller@example.com", models.RoleUser)

	env.createItem(owner.ID, "smartphone", "cheap", "poor", models.ItemStatusPending, 36)
	env.createItem(owner.ID, "smartphone", "mid", "good", models.ItemStatusPending, 84)
	env.createItem(owner.ID, "laptop", "pricey", "new", models.ItemStatusPending, 250)

	rec, c := env.doJSONRequest(http.MethodGet, "/buy?minPrice=36&maxPrice=84", nil)
	require.NoError(t, env.Buy.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.BuyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp.Total)

	prices := map[float64]bool{}
	for _, item := range resp.Items {
		prices[item.EstimatedPrice] = true
	}
	require.True(t, prices[36])
	require.True(t, prices[84])
}

func TestBuyList_SearchMatchesBrandCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Seller", "seller@example.com", models.RoleUser)

	env.createItem(owner.ID, "smartphone", "Apple", "good", models.ItemStatusPending, 84)
	env.createItem(owner.ID, "laptop", "Lenovo", "good", models.ItemStatusPending, 175)

	rec, c := env.doJSONRequest(http.MethodGet, "/buy?search=aPPle", nil)
	require.NoError(t, env.Buy.List(c))

	var resp transport.BuyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 1, resp.Total)
	require.Equal(t, "Apple", resp.Items[0].Brand)
}

func TestBuyList_Pagination(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Seller", "seller@example.com", models.RoleUser)

	for i := 0; i < 5; i++ {
		env.createItem(owner.ID, "smartphone", "brand", "good", models.ItemStatusPending, 84)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/buy?page=2&limit=2", nil)
	require.NoError(t, env.Buy.List(c))

	var resp transport.BuyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 5, resp.Total)
	require.Equal(t, 2, resp.Page)
	require.EqualValues(t, 3, resp.TotalPages)
	require.Len(t, resp.Items, 2)
}

func TestBuySearch_UnconfiguredReturns503(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/buy/search?q=apple", nil)
	err := env.Buy.Search(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusServiceUnavailable, he.Code)
}

func TestBuyTransition_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Seller", "seller@example.com", models.RoleUser)
	item := env.createItem(owner.ID, "smartphone", "apple", "good", models.ItemStatusPending, 84)

	rec, c := env.doJSONRequest(http.MethodPut, "/buy/"+item.ID.String(), map[string]string{"status": "listed"})
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())
	require.NoError(t, env.Buy.Transition(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Item
	require.NoError(t, env.DB.First(&stored, "id = ?", item.ID).Error)
	require.Equal(t, models.ItemStatusListed, stored.Status)

	rec2, c2 := env.doJSONRequest(http.MethodPut, "/buy/"+item.ID.String(), map[string]string{"status": "sold"})
	c2.SetParamNames("id")
	c2.SetParamValues(item.ID.String())
	require.NoError(t, env.Buy.Transition(c2))
	require.Equal(t, http.StatusOK, rec2.Code)
}

func TestBuyTransition_RejectsInvalidStep(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Seller", "seller@example.com", models.RoleUser)
	item := env.createItem(owner.ID, "smartphone", "apple", "good", models.ItemStatusSold, 84)

	_, c := env.doJSONRequest(http.MethodPut, "/buy/"+item.ID.String(), map[string]string{"status": "pending"})
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err := env.Buy.Transition(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)

	var stored models.Item
	require.NoError(t, env.DB.First(&stored, "id = ?", item.ID).Error)
	require.Equal(t, models.ItemStatusSold, stored.Status)
}

func TestBuyTransition_UnknownItem(t *testing.T) {
	env := newTestEnv(t)

	id := uuid.NewString()
	_, c := env.doJSONRequest(http.MethodPut, "/buy/"+id, map[string]string{"status": "listed"})
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := env.Buy.Transition(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}
