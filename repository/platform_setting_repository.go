package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
)

// PlatformSettingRepositoryImpl implements PlatformSettingRepository
type PlatformSettingRepositoryImpl struct {
	*BaseRepository[models.PlatformSetting, models.PlatformSettingFilter]
}

func NewPlatformSettingRepository(db *gorm.DB) PlatformSettingRepository {
	return &PlatformSettingRepositoryImpl{BaseRepository: NewBaseRepository[models.PlatformSetting, models.PlatformSettingFilter](db)}
}

func (r *PlatformSettingRepositoryImpl) ByKey(ctx context.Context, key string) (*models.PlatformSetting, error) {
	db := r.getDB(ctx)
	var row models.PlatformSetting
	if err := db.Where("key = ?", key).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FloatByKey parses the setting value as a float. A missing row yields 0,
// which downstream flows treat as "feature disabled".
func (r *PlatformSettingRepositoryImpl) FloatByKey(ctx context.Context, key string) (float64, error) {
	row, err := r.ByKey(ctx, key)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	v, err := strconv.ParseFloat(row.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not numeric: %w", key, err)
	}
	return v, nil
}

func (r *PlatformSettingRepositoryImpl) applyFilter(db *gorm.DB, f models.PlatformSettingFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Key != nil {
		db = db.Where("key = ?", *f.Key)
	}
	return db
}

func (r *PlatformSettingRepositoryImpl) ByFilter(ctx context.Context, filter models.PlatformSettingFilter, orderBy string, limit, offset int) ([]*models.PlatformSetting, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PlatformSetting{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.PlatformSetting
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PlatformSettingRepositoryImpl) Count(ctx context.Context, filter models.PlatformSettingFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PlatformSetting{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PlatformSettingRepositoryImpl) Exists(ctx context.Context, filter models.PlatformSettingFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
