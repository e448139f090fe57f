package repository

import (
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserFilter narrows the admin account listing.
type UserFilter struct {
	Email         string
	Name          string
	Role          *model.UserRole
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          PageRequest
}

var userSortColumns = map[string]string{
	"email":      "email",
	"name":       "name",
	"createdat":  "created_at",
	"created_at": "created_at",
}

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindWithFilter(filter UserFilter) ([]model.User, int64, error)
	Update(user *model.User) error
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindWithFilter(filter UserFilter) ([]model.User, int64, error) {
	req := filter.Page.Normalize()

	query := r.db.Model(&model.User{})

	if filter.Email != "" {
		query = query.Where("users.email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.Name != "" {
		query = query.Where("users.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Role != nil {
		query = query.Where("users.role = ?", *filter.Role)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("users.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("users.created_at <= ?", *filter.CreatedBefore)
	}

	query = applySort(query, "users", req, userSortColumns)

	var users []model.User
	total, err := paginate(query, req, &users)
	if err != nil {
		logger.Error("Failed to find users with filter", err, map[string]interface{}{
			"email": filter.Email,
			"name":  filter.Name,
		})
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}
