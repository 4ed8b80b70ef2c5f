package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recyclemart/ewaste-market/internal/models"
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrEmailTaken
	}
	return nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ensureAdmin returns an existing admin or creates the system admin
// inside tx, so callers bootstrapping admin-owned records stay inside
// one transactional boundary.
func ensureAdmin(tx *gorm.DB) (*models.User, error) {
	var admin models.User
	err := tx.Where("role = ?", models.RoleAdmin).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	admin = models.User{
		Name:  "System Admin",
		Email: "system.admin@example.com",
		Role:  models.RoleAdmin,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
