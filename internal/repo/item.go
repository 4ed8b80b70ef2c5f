package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recyclemart/ewaste-market/internal/models"
)

// BuyFilters narrows the public buyable query. Zero values mean "no
// constraint" except the price bounds, which are always applied
// inclusively.
type BuyFilters struct {
	DeviceType string
	Condition  string
	Search     string
	MinPrice   float64
	MaxPrice   float64
	Offset     int
	Limit      int
}

func (r *GormRepo) buyableQuery(ctx context.Context, f BuyFilters) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("status = ?", models.ItemStatusPending).
		Where("estimated_price >= ? AND estimated_price <= ?", f.MinPrice, f.MaxPrice)

	if f.DeviceType != "" {
		q = q.Where("device_type = ?", f.DeviceType)
	}
	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"LOWER(brand) LIKE LOWER(?) OR LOWER(model) LIKE LOWER(?) OR LOWER(device_type) LIKE LOWER(?) OR LOWER(condition) LIKE LOWER(?)",
			like, like, like, like,
		)
	}
	return q
}

func (r *GormRepo) QueryBuyable(ctx context.Context, f BuyFilters) (int64, []models.Item, error) {
	var total int64
	if err := r.buyableQuery(ctx, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Item
	if err := r.buyableQuery(ctx, f).
		Order("created_at DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) ListOwnedItems(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) GetOwnedItem(ctx context.Context, userID, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRepo) SaveItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) DeleteOwnedItem(ctx context.Context, userID, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}
