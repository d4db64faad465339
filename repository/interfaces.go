// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amberlink/ambassador-platform/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	HasRole(ctx context.Context, userID uint, role string) (bool, error)
}

// ProductRepository defines operations for products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByIDActive(ctx context.Context, id uint) (*models.Product, error)
	DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error)
}

// CategoryCommissionRepository defines operations for category commission fallbacks
type CategoryCommissionRepository interface {
	Repository[models.CategoryCommission, models.CategoryCommissionFilter]
	ByCategory(ctx context.Context, category string) (*models.CategoryCommission, error)
}

// ReferralLinkRepository defines operations for referral links
type ReferralLinkRepository interface {
	Repository[models.ReferralLink, models.ReferralLinkFilter]
	ByCode(ctx context.Context, code string) (*models.ReferralLink, error)
	ByUserAndProduct(ctx context.Context, userID, productID uint) (*models.ReferralLink, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CreateIfAbsent(ctx context.Context, link *models.ReferralLink) (*models.ReferralLink, error)
	IncrementClicks(ctx context.Context, linkID uint) error
	RecordConversion(ctx context.Context, linkID uint, commission float64) error
	ListByUser(ctx context.Context, userID uint) ([]*models.ReferralLink, error)
}

// ClickEventRepository defines operations for the append-only click audit log
type ClickEventRepository interface {
	Repository[models.ClickEvent, models.ClickEventFilter]
	ExistsFromIPSince(ctx context.Context, linkID uint, ip string, since time.Time) (bool, error)
	ListByLink(ctx context.Context, linkID uint, limit, offset int) ([]*models.ClickEvent, error)
}

// OrderRepository defines operations for orders
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Order, error)
}

// CommissionRepository defines operations for commission rows
type CommissionRepository interface {
	Repository[models.Commission, models.CommissionFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Commission, error)
}

// PlatformSettingRepository defines operations for global key-value settings
type PlatformSettingRepository interface {
	Repository[models.PlatformSetting, models.PlatformSettingFilter]
	ByKey(ctx context.Context, key string) (*models.PlatformSetting, error)
	FloatByKey(ctx context.Context, key string) (float64, error)
}
