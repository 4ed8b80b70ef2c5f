package transport

import (
	"time"

	"github.com/recyclemart/ewaste-market/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	User    *UserPayload `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

type CreateItemRequest struct {
	DeviceType string   `json:"deviceType"`
	Brand      string   `json:"brand"`
	Model      string   `json:"model"`
	Condition  string   `json:"condition"`
	Weight     float64  `json:"weight"`
	Images     []string `json:"images"`
}

type PatchItemRequest struct {
	DeviceType *string   `json:"deviceType"`
	Brand      *string   `json:"brand"`
	Model      *string   `json:"model"`
	Condition  *string   `json:"condition"`
	Weight     *float64  `json:"weight"`
	Images     *[]string `json:"images"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type BuyResponse struct {
	Items      []models.Item `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int64         `json:"totalPages"`
}

type CreateCouponRequest struct {
	Code              string     `json:"code"`
	DiscountType      string     `json:"discountType"`
	DiscountValue     float64    `json:"discountValue"`
	MinPurchaseAmount float64    `json:"minPurchaseAmount"`
	MaxDiscountAmount *float64   `json:"maxDiscountAmount"`
	StartDate         *time.Time `json:"startDate"`
	ExpirationDate    *time.Time `json:"expirationDate"`
	// ExpiryDate is the legacy alias the admin UI still sends.
	ExpiryDate *time.Time `json:"expiryDate"`
	UsageLimit int        `json:"usageLimit"`
	// MaxUsageLimit is the legacy alias for UsageLimit.
	MaxUsageLimit int   `json:"maxUsageLimit"`
	IsActive      *bool `json:"isActive"`
}

type UpdateCouponRequest struct {
	ID                string     `json:"id"`
	DiscountType      *string    `json:"discountType"`
	DiscountValue     *float64   `json:"discountValue"`
	MinPurchaseAmount *float64   `json:"minPurchaseAmount"`
	MaxDiscountAmount *float64   `json:"maxDiscountAmount"`
	StartDate         *time.Time `json:"startDate"`
	ExpirationDate    *time.Time `json:"expirationDate"`
	UsageLimit        *int       `json:"usageLimit"`
	Status            *string    `json:"status"`
}

type DeleteCouponRequest struct {
	ID string `json:"id"`
}

type RedeemCouponRequest struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

type PresignImageRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type PresignImageResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}
