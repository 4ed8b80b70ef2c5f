package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	ItemStatusPending = "pending"
	ItemStatusListed  = "listed"
	ItemStatusSold    = "sold"
	ItemStatusRemoved = "removed"
)

const (
	CouponStatusActive   = "active"
	CouponStatusExpired  = "expired"
	CouponStatusDisabled = "disabled"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Item struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"    json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	DeviceType     string    `gorm:"not null"                json:"deviceType"`
	Brand          string    `gorm:"not null"                json:"brand"`
	Model          string    `gorm:"not null"                json:"model"`
	Condition      string    `gorm:"not null"                json:"condition"`
	EstimatedPrice float64   `gorm:"not null"                json:"estimatedPrice"`
	Weight         float64   `gorm:"not null"                json:"weight"`
	Images         []string  `gorm:"serializer:json"         json:"images"`
	Status         string    `gorm:"index;default:pending"   json:"status"`
	CreatedAt      time.Time `gorm:"index"                   json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// itemTransitions is the allowed status lifecycle: pending -> listed
// -> sold, with removed reachable from any non-terminal state. Sold
// and removed are terminal.
var itemTransitions = map[string][]string{
	ItemStatusPending: {ItemStatusListed, ItemStatusRemoved},
	ItemStatusListed:  {ItemStatusSold, ItemStatusRemoved},
}

func ValidItemTransition(from, to string) bool {
	for _, next := range itemTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Coupon struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Code              string    `gorm:"uniqueIndex;not null"  json:"code"`
	DiscountType      string    `gorm:"not null"              json:"discountType"`
	DiscountValue     float64   `gorm:"not null"              json:"discountValue"`
	MinPurchaseAmount float64   `gorm:"default:0"             json:"minPurchaseAmount"`
	MaxDiscountAmount *float64  `json:"maxDiscountAmount,omitempty"`
	StartDate         time.Time `json:"startDate"`
	ExpirationDate    time.Time `gorm:"not null"              json:"expirationDate"`
	UsageLimit        int       `gorm:"default:100"           json:"usageLimit"`
	CurrentUsageCount int       `gorm:"default:0"             json:"currentUsageCount"`
	Status            string    `gorm:"default:active"        json:"status"`
	CreatedByID       uuid.UUID `gorm:"type:uuid;not null"    json:"-"`
	CreatedBy         *User     `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RefreshStatus recomputes the derived status before any persist.
// A coupon past its expiration date or usage limit is expired no
// matter what status it carried before.
func (c *Coupon) RefreshStatus(now time.Time) {
	if now.After(c.ExpirationDate) {
		c.Status = CouponStatusExpired
	}
	if c.UsageLimit > 0 && c.CurrentUsageCount >= c.UsageLimit {
		c.Status = CouponStatusExpired
	}
}
