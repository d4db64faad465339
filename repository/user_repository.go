package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/amberlink/ambassador-platform/models"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{BaseRepository: NewBaseRepository[models.User, models.UserFilter](db)}
}

func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	db := r.getDB(ctx)
	var row models.User
	if err := db.Where("LOWER(email) = ?", strings.ToLower(email)).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// HasRole reports whether an active user holds the given role. Admins
// implicitly hold the ambassador capability.
func (r *UserRepositoryImpl) HasRole(ctx context.Context, userID uint, role string) (bool, error) {
	user, err := r.ByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil || user.IsActive == nil || !*user.IsActive {
		return false, nil
	}
	return user.HasRole(role), nil
}

func (r *UserRepositoryImpl) applyFilter(db *gorm.DB, f models.UserFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Role != nil {
		db = db.Where("role = ?", *f.Role)
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

func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
