package repository

import (
	"github.com/nkechi/Smartprep/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindChildrenByParentID(parentID uint) ([]model.User, error)
	Update(user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindChildrenByParentID(parentID uint) ([]model.User, error) {
	var children []model.User
	err := r.db.
		Where("parent_id = ? AND user_type = ?", parentID, model.UserTypeChild).
		Order("id ASC").
		Find(&children).Error
	return children, err
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}
