package repository

import (
	"context"
	"errors"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
)

// ProductRepositoryImpl implements ProductRepository
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db)}
}

// ByIDActive retrieves a product only if it exists and is active.
func (r *ProductRepositoryImpl) ByIDActive(ctx context.Context, id uint) (*models.Product, error) {
	db := r.getDB(ctx)
	var row models.Product
	if err := db.Where("id = ? AND is_active = ?", id, true).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// DecrementStock atomically reduces stock by quantity. The guard clause keeps
// concurrent orders from overselling: the update only applies while enough
// stock remains, and the caller treats zero affected rows as insufficiency.
func (r *ProductRepositoryImpl) DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProductRepositoryImpl) applyFilter(db *gorm.DB, f models.ProductFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Category != nil {
		db = db.Where("category = ?", *f.Category)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Product{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Product{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProductRepositoryImpl) Exists(ctx context.Context, filter models.ProductFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
