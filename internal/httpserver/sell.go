package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/service"
	"github.com/recyclemart/ewaste-market/internal/storage"
	"github.com/recyclemart/ewaste-market/internal/transport"
)

type SellHTTP struct {
	Svc    *service.ListingService
	Images storage.ImageStorage
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	raw, _ := c.Get("user_id").(string)
	return uuid.Parse(raw)
}

func (h *SellHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}

	items, err := h.Svc.ListOwned(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("sell list failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to retrieve sell items")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *SellHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sell.create")

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}

	var req transport.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Create(ctx, userID, service.ItemDraft{
		DeviceType: req.DeviceType,
		Brand:      req.Brand,
		Model:      req.Model,
		Condition:  req.Condition,
		Weight:     req.Weight,
		Images:     req.Images,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("sell create failed", "status", 400, "reason", "invalid fields")
			return echo.NewHTTPError(http.StatusBadRequest, "invalid item fields")
		}
		l.Error("sell create failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create item")
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *SellHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	item, err := h.Svc.GetOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		logging.FromContext(ctx).Error("sell get failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to retrieve item")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *SellHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sell.update")

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.PatchItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Update(ctx, userID, id, service.ItemPatch{
		DeviceType: req.DeviceType,
		Brand:      req.Brand,
		Model:      req.Model,
		Condition:  req.Condition,
		Weight:     req.Weight,
		Images:     req.Images,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid item fields")
		default:
			l.Error("sell update failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update item")
		}
	}

	return c.JSON(http.StatusOK, item)
}

func (h *SellHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		logging.FromContext(ctx).Error("sell delete failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete item")
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "Item deleted"})
}

// PresignImage hands the client a short-lived S3 upload URL. The
// returned key goes into the item's images on create/update.
func (h *SellHTTP) PresignImage(c echo.Context) error {
	if h.Images == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image storage is not configured")
	}

	ctx := c.Request().Context()
	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}

	var req transport.PresignImageRequest
	if err := c.Bind(&req); err != nil || req.Filename == "" || req.ContentType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "filename and contentType are required")
	}

	url, key, err := h.Images.PresignPutURL(ctx, userID.String(), req.Filename, req.ContentType)
	if err != nil {
		logging.FromContext(ctx).Error("presign failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to presign upload")
	}

	return c.JSON(http.StatusOK, transport.PresignImageResponse{UploadURL: url, Key: key})
}
