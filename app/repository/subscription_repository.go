package repository

import (
	"github.com/mikeskafld/dojo-web/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByID retrieves a subscription by its provider id
func (r *subscriptionRepository) GetByID(id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByUserID retrieves all subscriptions linked to a user, newest first
func (r *subscriptionRepository) GetByUserID(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// GetEntitlingByUserID retrieves the newest subscription that currently
// grants access, or gorm.ErrRecordNotFound
func (r *subscriptionRepository) GetEntitlingByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Where("user_id = ? AND status IN ?", userID, []string{models.SubscriptionStatusActive, models.SubscriptionStatusTrialing}).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Count returns the total number of mirrored subscriptions
func (r *subscriptionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Count(&count).Error
	return count, err
}
