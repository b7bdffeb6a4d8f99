package postgres

import (
	"context"

	userDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/user"
	"github.com/satriohadi/sewateman/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.RepositoryAPI using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) ListProviders(ctx context.Context, limit, offset int) ([]*user.User, error) {
	var rows []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", user.RoleProvider, true).
		Order("name ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return user.FromDataModelSlice(rows), err
}
