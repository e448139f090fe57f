package service

import (
	"errors"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAlreadySubscribed   = errors.New("email is already subscribed")
	ErrSubscriptionMissing = errors.New("subscription not found")
)

type SubscriptionService interface {
	Subscribe(email string) (*model.Subscription, error)
	Unsubscribe(email string) error
	ListActive() ([]model.Subscription, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{subscriptionRepo: subscriptionRepo}
}

// Subscribe creates a signup, or revives a previously unsubscribed
// row. An already-active subscription is a conflict.
func (s *subscriptionService) Subscribe(email string) (*model.Subscription, error) {
	existing, err := s.subscriptionRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		subscription := &model.Subscription{Email: email, Active: true}
		if err := s.subscriptionRepo.Create(subscription); err != nil {
			return nil, err
		}
		logger.Info("New subscription created", map[string]interface{}{
			"email": email,
		})
		return subscription, nil
	}

	if existing.Active {
		return nil, ErrAlreadySubscribed
	}

	existing.Active = true
	if err := s.subscriptionRepo.Update(existing); err != nil {
		return nil, err
	}
	logger.Info("Subscription revived", map[string]interface{}{
		"email": email,
	})
	return existing, nil
}

func (s *subscriptionService) Unsubscribe(email string) error {
	existing, err := s.subscriptionRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionMissing
		}
		return err
	}
	if !existing.Active {
		return nil
	}

	existing.Active = false
	if err := s.subscriptionRepo.Update(existing); err != nil {
		return err
	}
	logger.Info("Subscription deactivated", map[string]interface{}{
		"email": email,
	})
	return nil
}

func (s *subscriptionService) ListActive() ([]model.Subscription, error) {
	return s.subscriptionRepo.FindActive()
}
