package repository

import (
	"github.com/minkwan/storefront-backend/internal/app/model"
	"gorm.io/gorm"
)

type StatusRepository interface {
	FindAll() ([]model.Status, error)
	FindByGroup(group model.StatusGroup) ([]model.Status, error)
	FindByID(id uint) (*model.Status, error)
	FindByName(name string) (*model.Status, error)
}

type statusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) FindAll() ([]model.Status, error) {
	var statuses []model.Status
	if err := r.db.Order("id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *statusRepository) FindByGroup(group model.StatusGroup) ([]model.Status, error) {
	var statuses []model.Status
	if err := r.db.Where("status_group = ?", group).Order("id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *statusRepository) FindByID(id uint) (*model.Status, error) {
	var status model.Status
	if err := r.db.First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) FindByName(name string) (*model.Status, error) {
	var status model.Status
	if err := r.db.Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}
