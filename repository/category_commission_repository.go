package repository

import (
	"context"
	"errors"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
)

// CategoryCommissionRepositoryImpl implements CategoryCommissionRepository
type CategoryCommissionRepositoryImpl struct {
	*BaseRepository[models.CategoryCommission, models.CategoryCommissionFilter]
}

func NewCategoryCommissionRepository(db *gorm.DB) CategoryCommissionRepository {
	return &CategoryCommissionRepositoryImpl{BaseRepository: NewBaseRepository[models.CategoryCommission, models.CategoryCommissionFilter](db)}
}

func (r *CategoryCommissionRepositoryImpl) ByCategory(ctx context.Context, category string) (*models.CategoryCommission, error) {
	db := r.getDB(ctx)
	var row models.CategoryCommission
	if err := db.Where("category = ?", category).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CategoryCommissionRepositoryImpl) applyFilter(db *gorm.DB, f models.CategoryCommissionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Category != nil {
		db = db.Where("category = ?", *f.Category)
	}
	return db
}

func (r *CategoryCommissionRepositoryImpl) ByFilter(ctx context.Context, filter models.CategoryCommissionFilter, orderBy string, limit, offset int) ([]*models.CategoryCommission, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CategoryCommission{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.CategoryCommission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CategoryCommissionRepositoryImpl) Count(ctx context.Context, filter models.CategoryCommissionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CategoryCommission{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CategoryCommissionRepositoryImpl) Exists(ctx context.Context, filter models.CategoryCommissionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
