package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/service"
	"github.com/recyclemart/ewaste-market/internal/transport"
)

type CouponHTTP struct {
	Svc *service.CouponService
}

func (h *CouponHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	coupons, err := h.Svc.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("coupon list failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "coupons": coupons})
}

func (h *CouponHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.create")

	var req transport.CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
	}

	expiration := time.Time{}
	if req.ExpirationDate != nil {
		expiration = *req.ExpirationDate
	} else if req.ExpiryDate != nil {
		expiration = *req.ExpiryDate
	}
	usageLimit := req.UsageLimit
	if usageLimit == 0 {
		usageLimit = req.MaxUsageLimit
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	// Requests from non-admin callers never reach here (gate), but a
	// zero actor still resolves to the system admin inside the repo.
	actorID, _ := currentUserID(c)

	coupon, err := h.Svc.Create(ctx, service.CouponDraft{
		Code:              req.Code,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		StartDate:         req.StartDate,
		ExpirationDate:    expiration,
		UsageLimit:        usageLimit,
		Active:            active,
	}, actorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Missing required fields"})
		case errors.Is(err, service.ErrDuplicateCode):
			return c.JSON(http.StatusConflict, map[string]any{"success": false, "message": "Coupon code already exists"})
		default:
			l.Error("coupon create failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal Server Error"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "coupon": coupon})
}

func (h *CouponHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.update")

	var req transport.UpdateCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
	}
	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Coupon ID is required"})
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Coupon ID is required"})
	}

	coupon, err := h.Svc.Update(ctx, id, service.CouponPatch{
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		StartDate:         req.StartDate,
		ExpirationDate:    req.ExpirationDate,
		UsageLimit:        req.UsageLimit,
		Status:            req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]any{"success": false, "message": "Coupon not found"})
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid coupon fields"})
		default:
			l.Error("coupon update failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal Server Error"})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "coupon": coupon})
}

func (h *CouponHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.DeleteCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Coupon ID is required"})
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"success": false, "message": "Coupon not found"})
		}
		logging.FromContext(ctx).Error("coupon delete failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Coupon deleted successfully"})
}

func (h *CouponHTTP) Redeem(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RedeemCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
	}

	result, err := h.Svc.Redeem(ctx, req.Code, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Missing required fields"})
		}
		logging.FromContext(ctx).Error("coupon redeem failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, result)
}
