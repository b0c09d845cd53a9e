package billing

import (
	"time"

	"github.com/mikeskafld/dojo-web/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	UpsertSubscription(sub *models.Subscription) error
	GetSubscriptionByID(id string) (*models.Subscription, error)
	ListSubscriptionsByUser(userID uint) ([]models.Subscription, error)
	FindUserIDByExternalID(externalID string) (*uint, error)
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
	MarkWebhookSignatureValid(id uint) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UpsertSubscription(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"customer_id",
			"product_id",
			"status",
			"amount",
			"currency",
			"recurring_interval",
			"current_period_start",
			"current_period_end",
			"cancel_at_period_end",
			"canceled_at",
			"started_at",
			"ends_at",
			"ended_at",
			"discount_id",
			"checkout_id",
			"customer_cancellation_reason",
			"customer_cancellation_comment",
			"metadata_json",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Re-read so timestamps reflect the stored row after an update path.
	return r.db.Where("id = ?", sub.ID).First(sub).Error
}

func (r *gormRepository) GetSubscriptionByID(id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) ListSubscriptionsByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *gormRepository) FindUserIDByExternalID(externalID string) (*uint, error) {
	var user models.User
	if err := r.db.Select("id").Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, err
	}
	id := user.ID
	return &id, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookSignatureValid(id uint) error {
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).
		Update("signature_valid", true).Error
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
