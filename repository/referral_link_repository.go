package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferralLinkRepositoryImpl implements ReferralLinkRepository
type ReferralLinkRepositoryImpl struct {
	*BaseRepository[models.ReferralLink, models.ReferralLinkFilter]
}

func NewReferralLinkRepository(db *gorm.DB) ReferralLinkRepository {
	return &ReferralLinkRepositoryImpl{BaseRepository: NewBaseRepository[models.ReferralLink, models.ReferralLinkFilter](db)}
}

func (r *ReferralLinkRepositoryImpl) ByCode(ctx context.Context, code string) (*models.ReferralLink, error) {
	db := r.getDB(ctx)
	var row models.ReferralLink
	if err := db.Where("code = ?", code).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ReferralLinkRepositoryImpl) ByUserAndProduct(ctx context.Context, userID, productID uint) (*models.ReferralLink, error) {
	db := r.getDB(ctx)
	var row models.ReferralLink
	if err := db.Where("user_id = ? AND product_id = ?", userID, productID).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CodeExists checks the global code namespace, not a per-user scope.
func (r *ReferralLinkRepositoryImpl) CodeExists(ctx context.Context, code string) (bool, error) {
	return r.Exists(ctx, models.ReferralLinkFilter{Code: &code})
}

// CreateIfAbsent inserts the link with ON CONFLICT DO NOTHING on the
// (user_id, product_id) pair and returns the surviving row. Two concurrent
// requests that both miss the initial lookup resolve here: the constraint
// violation is the authoritative uniqueness signal, never a lost insert.
func (r *ReferralLinkRepositoryImpl) CreateIfAbsent(ctx context.Context, link *models.ReferralLink) (*models.ReferralLink, error) {
	db := r.getDB(ctx)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(link)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to upsert referral link: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return link, nil
	}

	// Lost the race; read back the winner.
	existing, err := r.ByUserAndProduct(ctx, link.UserID, link.ProductID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("referral link upsert conflict but no existing row for user %d product %d", link.UserID, link.ProductID)
	}
	return existing, nil
}

// IncrementClicks bumps the monetized click counter by one.
func (r *ReferralLinkRepositoryImpl) IncrementClicks(ctx context.Context, linkID uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.ReferralLink{}).
		Where("id = ?", linkID).
		UpdateColumn("clicks", gorm.Expr("clicks + 1")).Error
}

// RecordConversion bumps the conversion counter and accrues the earned
// commission onto the link's running total.
func (r *ReferralLinkRepositoryImpl) RecordConversion(ctx context.Context, linkID uint, commission float64) error {
	db := r.getDB(ctx)
	return db.Model(&models.ReferralLink{}).
		Where("id = ?", linkID).
		UpdateColumns(map[string]any{
			"conversions":      gorm.Expr("conversions + 1"),
			"total_commission": gorm.Expr("total_commission + ?", commission),
		}).Error
}

func (r *ReferralLinkRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.ReferralLink, error) {
	return r.ByFilter(ctx, models.ReferralLinkFilter{UserID: &userID}, "id DESC", 0, 0)
}

func (r *ReferralLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.ReferralLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.ProductID != nil {
		db = db.Where("product_id = ?", *f.ProductID)
	}
	if f.Code != nil {
		db = db.Where("code = ?", *f.Code)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ReferralLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.ReferralLinkFilter, orderBy string, limit, offset int) ([]*models.ReferralLink, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ReferralLink{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ReferralLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReferralLinkRepositoryImpl) Count(ctx context.Context, filter models.ReferralLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ReferralLink{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReferralLinkRepositoryImpl) Exists(ctx context.Context, filter models.ReferralLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
