package postgres

import (
	"github.com/satriohadi/sewateman/internal/auth"
	userDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/user"
	"github.com/satriohadi/sewateman/internal/user"
	"gorm.io/gorm"
)

// AuthRepository implements auth.RepositoryAPI using GORM.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetByEmail(email string) (*user.User, string, error) {
	var row userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&row).Error; err != nil {
		return nil, "", err
	}
	return user.FromDataModel(&row), row.PasswordHash, nil
}

func (r *AuthRepository) GetByID(id int64) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return user.FromDataModel(&row), nil
}
