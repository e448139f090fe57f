package repository

import (
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(subscription *model.Subscription) error
	FindByEmail(email string) (*model.Subscription, error)
	FindActive() ([]model.Subscription, error)
	Update(subscription *model.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(subscription *model.Subscription) error {
	logger.Debug("Creating subscription in database", map[string]interface{}{
		"email": subscription.Email,
	})

	if err := r.db.Create(subscription).Error; err != nil {
		logger.Error("Failed to create subscription", err, map[string]interface{}{
			"email": subscription.Email,
		})
		return err
	}
	return nil
}

func (r *subscriptionRepository) FindByEmail(email string) (*model.Subscription, error) {
	var subscription model.Subscription
	if err := r.db.Where("email = ?", email).First(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepository) FindActive() ([]model.Subscription, error) {
	var subscriptions []model.Subscription
	if err := r.db.Where("active = ?", true).Order("id ASC").Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) Update(subscription *model.Subscription) error {
	if err := r.db.Save(subscription).Error; err != nil {
		logger.Error("Failed to update subscription", err, map[string]interface{}{
			"subscription_id": subscription.ID,
		})
		return err
	}
	return nil
}
