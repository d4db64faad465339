package repository

import (
	"context"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
)

// CommissionRepositoryImpl implements CommissionRepository
type CommissionRepositoryImpl struct {
	*BaseRepository[models.Commission, models.CommissionFilter]
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &CommissionRepositoryImpl{BaseRepository: NewBaseRepository[models.Commission, models.CommissionFilter](db)}
}

func (r *CommissionRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Commission, error) {
	return r.ByFilter(ctx, models.CommissionFilter{UserID: &userID}, "id DESC", limit, offset)
}

func (r *CommissionRepositoryImpl) applyFilter(db *gorm.DB, f models.CommissionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.OrderID != nil {
		db = db.Where("order_id = ?", *f.OrderID)
	}
	if f.ReferralLinkID != nil {
		db = db.Where("referral_link_id = ?", *f.ReferralLinkID)
	}
	if f.Kind != nil {
		db = db.Where("kind = ?", *f.Kind)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *CommissionRepositoryImpl) ByFilter(ctx context.Context, filter models.CommissionFilter, orderBy string, limit, offset int) ([]*models.Commission, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Commission{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Commission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CommissionRepositoryImpl) Count(ctx context.Context, filter models.CommissionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Commission{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CommissionRepositoryImpl) Exists(ctx context.Context, filter models.CommissionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
