package repository

import (
	"context"
	"time"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
)

// ClickEventRepositoryImpl implements ClickEventRepository
type ClickEventRepositoryImpl struct {
	*BaseRepository[models.ClickEvent, models.ClickEventFilter]
}

func NewClickEventRepository(db *gorm.DB) ClickEventRepository {
	return &ClickEventRepositoryImpl{BaseRepository: NewBaseRepository[models.ClickEvent, models.ClickEventFilter](db)}
}

// ExistsFromIPSince reports whether any click from the given IP hit the link
// at or after the window lower bound. Both suspicious and clean rows count:
// a fraudulent burst must not become clean by having its first click flagged.
func (r *ClickEventRepositoryImpl) ExistsFromIPSince(ctx context.Context, linkID uint, ip string, since time.Time) (bool, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.ClickEvent{}).
		Where("referral_link_id = ? AND ip_address = ? AND created_at >= ?", linkID, ip, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ClickEventRepositoryImpl) ListByLink(ctx context.Context, linkID uint, limit, offset int) ([]*models.ClickEvent, error) {
	return r.ByFilter(ctx, models.ClickEventFilter{ReferralLinkID: &linkID}, "id DESC", limit, offset)
}

func (r *ClickEventRepositoryImpl) applyFilter(db *gorm.DB, f models.ClickEventFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ReferralLinkID != nil {
		db = db.Where("referral_link_id = ?", *f.ReferralLinkID)
	}
	if f.IPAddress != nil {
		db = db.Where("ip_address = ?", *f.IPAddress)
	}
	if f.IsSuspicious != nil {
		db = db.Where("is_suspicious = ?", *f.IsSuspicious)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ClickEventRepositoryImpl) ByFilter(ctx context.Context, filter models.ClickEventFilter, orderBy string, limit, offset int) ([]*models.ClickEvent, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ClickEvent{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ClickEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClickEventRepositoryImpl) Count(ctx context.Context, filter models.ClickEventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ClickEvent{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ClickEventRepositoryImpl) Exists(ctx context.Context, filter models.ClickEventFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
