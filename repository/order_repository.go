package repository

import (
	"context"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
)

// OrderRepositoryImpl implements OrderRepository
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db)}
}

func (r *OrderRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Order, error) {
	return r.ByFilter(ctx, models.OrderFilter{UserID: &userID}, "id DESC", limit, offset)
}

func (r *OrderRepositoryImpl) applyFilter(db *gorm.DB, f models.OrderFilter) *gorm.DB {
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

func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrderRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OrderRepositoryImpl) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
