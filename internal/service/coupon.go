package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recyclemart/ewaste-market/internal/cache"
	"github.com/recyclemart/ewaste-market/internal/events"
	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/models"
	"github.com/recyclemart/ewaste-market/internal/repo"
)

type CouponService struct {
	Repo     *repo.GormRepo
	Cache    *cache.CouponCache
	Producer *events.Producer
}

type CouponDraft struct {
	Code              string
	DiscountType      string
	DiscountValue     float64
	MinPurchaseAmount float64
	MaxDiscountAmount *float64
	StartDate         *time.Time
	ExpirationDate    time.Time
	UsageLimit        int
	Active            bool
}

type CouponPatch struct {
	DiscountType      *string
	DiscountValue     *float64
	MinPurchaseAmount *float64
	MaxDiscountAmount *float64
	StartDate         *time.Time
	ExpirationDate    *time.Time
	UsageLimit        *int
	Status            *string
}

// Create normalizes the code (upper-cased, trimmed) and persists the
// coupon. When actorID is uuid.Nil the repo falls back to the system
// admin inside the same transaction.
func (s *CouponService) Create(ctx context.Context, draft CouponDraft, actorID uuid.UUID) (*models.Coupon, error) {
	l := logging.FromContext(ctx).With("svc", "coupon.create")

	draft.Code = strings.ToUpper(strings.TrimSpace(draft.Code))
	if draft.Code == "" || draft.DiscountValue <= 0 || draft.ExpirationDate.IsZero() {
		return nil, ErrValidation
	}
	if draft.DiscountType != models.DiscountPercentage && draft.DiscountType != models.DiscountFixed {
		return nil, ErrValidation
	}

	usageLimit := draft.UsageLimit
	if usageLimit <= 0 {
		usageLimit = 100
	}
	startDate := time.Now()
	if draft.StartDate != nil {
		startDate = *draft.StartDate
	}
	status := models.CouponStatusActive
	if !draft.Active {
		status = models.CouponStatusDisabled
	}

	coupon := &models.Coupon{
		Code:              draft.Code,
		DiscountType:      draft.DiscountType,
		DiscountValue:     draft.DiscountValue,
		MinPurchaseAmount: draft.MinPurchaseAmount,
		MaxDiscountAmount: draft.MaxDiscountAmount,
		StartDate:         startDate,
		ExpirationDate:    draft.ExpirationDate,
		UsageLimit:        usageLimit,
		Status:            status,
	}

	if err := s.Repo.CreateCoupon(ctx, coupon, actorID); err != nil {
		if errors.Is(err, repo.ErrDuplicateCode) {
			l.Warn("coupon create failed", "status", 409, "reason", "duplicate code", "code", coupon.Code)
			return nil, ErrDuplicateCode
		}
		l.Error("coupon create failed", "status", 500, "error", err)
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	s.publish(ctx, coupon.ID, map[string]any{
		"type": "coupon_created",
		"code": coupon.Code,
	})

	return coupon, nil
}

// List resolves the creator identity for every coupon; the result is
// served from Redis when the cached copy is still warm.
func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	if coupons, ok := s.Cache.GetList(ctx); ok {
		return coupons, nil
	}

	coupons, err := s.Repo.ListCoupons(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.SetList(ctx, coupons)
	return coupons, nil
}

func (s *CouponService) Update(ctx context.Context, id uuid.UUID, patch CouponPatch) (*models.Coupon, error) {
	coupon, err := s.Repo.GetCoupon(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if patch.DiscountType != nil {
		if *patch.DiscountType != models.DiscountPercentage && *patch.DiscountType != models.DiscountFixed {
			return nil, ErrValidation
		}
		coupon.DiscountType = *patch.DiscountType
	}
	if patch.DiscountValue != nil {
		if *patch.DiscountValue <= 0 {
			return nil, ErrValidation
		}
		coupon.DiscountValue = *patch.DiscountValue
	}
	if patch.MinPurchaseAmount != nil {
		coupon.MinPurchaseAmount = *patch.MinPurchaseAmount
	}
	if patch.MaxDiscountAmount != nil {
		coupon.MaxDiscountAmount = patch.MaxDiscountAmount
	}
	if patch.StartDate != nil {
		coupon.StartDate = *patch.StartDate
	}
	if patch.ExpirationDate != nil {
		coupon.ExpirationDate = *patch.ExpirationDate
	}
	if patch.UsageLimit != nil {
		coupon.UsageLimit = *patch.UsageLimit
	}
	if patch.Status != nil {
		// expired is derived, never assigned by hand
		if *patch.Status != models.CouponStatusActive && *patch.Status != models.CouponStatusDisabled {
			return nil, ErrValidation
		}
		coupon.Status = *patch.Status
	}

	if err := s.Repo.SaveCoupon(ctx, coupon); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteCoupon(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

type RedeemResult struct {
	Valid       bool    `json:"valid"`
	Message     string  `json:"message,omitempty"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"finalAmount"`
}

// Redeem validates the coupon against the purchase amount and, when
// valid, consumes one usage. Business rejections come back in the
// result, not as errors.
func (s *CouponService) Redeem(ctx context.Context, code string, amount float64) (*RedeemResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || amount <= 0 {
		return nil, ErrValidation
	}

	coupon, err := s.Repo.FindCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return &RedeemResult{Valid: false, Message: "coupon_not_found", FinalAmount: amount}, nil
		}
		return nil, err
	}

	now := time.Now()
	coupon.RefreshStatus(now)

	switch {
	case coupon.Status == models.CouponStatusDisabled:
		return &RedeemResult{Valid: false, Message: "coupon_disabled", FinalAmount: amount}, nil
	case coupon.Status == models.CouponStatusExpired:
		return &RedeemResult{Valid: false, Message: "coupon_expired", FinalAmount: amount}, nil
	case now.Before(coupon.StartDate):
		return &RedeemResult{Valid: false, Message: "coupon_not_started", FinalAmount: amount}, nil
	case amount < coupon.MinPurchaseAmount:
		return &RedeemResult{Valid: false, Message: "min_purchase_not_met", FinalAmount: amount}, nil
	}

	var discount float64
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount = amount * coupon.DiscountValue / 100
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case models.DiscountFixed:
		discount = coupon.DiscountValue
	}
	if discount > amount {
		discount = amount
	}

	coupon.CurrentUsageCount++
	if err := s.Repo.SaveCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)

	s.publish(ctx, coupon.ID, map[string]any{
		"type":   "coupon_redeemed",
		"code":   coupon.Code,
		"amount": amount,
	})

	return &RedeemResult{
		Valid:       true,
		Discount:    discount,
		FinalAmount: amount - discount,
	}, nil
}

func (s *CouponService) publish(ctx context.Context, id uuid.UUID, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicCouponEvents, id.String(), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", events.TopicCouponEvents, "error", err)
	}
}
