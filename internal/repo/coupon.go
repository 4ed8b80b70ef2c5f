package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recyclemart/ewaste-market/internal/models"
)

func (r *GormRepo) FindCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

// CreateCoupon persists a new coupon. When creatorID is uuid.Nil the
// creator defaults to an existing admin, bootstrapping the system
// admin if none exists yet; the lookup-or-create and the coupon
// insert run in one transaction so a failure cannot leave an orphaned
// admin user behind.
func (r *GormRepo) CreateCoupon(ctx context.Context, coupon *models.Coupon, creatorID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Coupon
		err := tx.Where("code = ?", coupon.Code).First(&existing).Error
		if err == nil {
			return ErrDuplicateCode
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if creatorID == uuid.Nil {
			admin, err := ensureAdmin(tx)
			if err != nil {
				return err
			}
			coupon.CreatedByID = admin.ID
		} else {
			coupon.CreatedByID = creatorID
		}

		coupon.RefreshStatus(time.Now())
		return tx.Create(coupon).Error
	})
}

func (r *GormRepo) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.DB.WithContext(ctx).
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *GormRepo) GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *GormRepo) SaveCoupon(ctx context.Context, coupon *models.Coupon) error {
	coupon.RefreshStatus(time.Now())
	return r.DB.WithContext(ctx).Save(coupon).Error
}

func (r *GormRepo) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Coupon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
