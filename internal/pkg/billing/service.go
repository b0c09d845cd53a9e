package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mikeskafld/dojo-web/app/models"
)

// ErrInvalidPayload is returned when a webhook body cannot be decoded or
// lacks a subscription id.
var ErrInvalidPayload = errors.New("billing: invalid webhook payload")

// Service mirrors provider subscription state into the database.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// DecodeEnvelope parses a raw webhook body into the event envelope.
func DecodeEnvelope(payload []byte) (*WebhookEnvelope, error) {
	var env WebhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, ErrInvalidPayload
	}
	return &env, nil
}

// ApplySubscriptionEvent writes a normalized subscription into the database.
// Every lifecycle kind takes the same path: the full record replaces whatever
// was stored before, keyed by the provider subscription id. Customer linkage
// is best effort; an unresolvable external id never blocks the write.
func (s *Service) ApplySubscriptionEvent(ctx context.Context, eventType string, in NormalizedSubscription) (*models.Subscription, error) {
	_ = ctx
	if strings.TrimSpace(in.ID) == "" {
		return nil, ErrInvalidPayload
	}

	sub := &models.Subscription{
		ID:                 in.ID,
		CustomerID:         in.CustomerID,
		ProductID:          in.ProductID,
		Status:             in.Status,
		Amount:             in.Amount,
		Currency:           in.Currency,
		RecurringInterval:  in.RecurringInterval,
		CurrentPeriodEnd:   parseISOPtr(in.CurrentPeriodEnd),
		CancelAtPeriodEnd:  in.CancelAtPeriodEnd,
		CanceledAt:         parseISOPtr(in.CanceledAt),
		StartedAt:          parseISOPtr(in.StartedAt),
		EndsAt:             parseISOPtr(in.EndsAt),
		EndedAt:            parseISOPtr(in.EndedAt),
	}

	start, err := parseISO(in.CurrentPeriodStart)
	if err != nil {
		start = nowFunc().UTC()
	}
	sub.CurrentPeriodStart = start

	if in.DiscountID != nil {
		sub.DiscountID = *in.DiscountID
	}
	if in.CheckoutID != nil {
		sub.CheckoutID = *in.CheckoutID
	}
	if in.CustomerCancellationReason != nil {
		sub.CustomerCancellationReason = *in.CustomerCancellationReason
	}
	if in.CustomerCancellationComment != nil {
		sub.CustomerCancellationComment = *in.CustomerCancellationComment
	}
	if len(in.Metadata) > 0 {
		if b, err := json.Marshal(in.Metadata); err != nil {
			log.Warnf("[Billing] metadata encode failed for subscription=%s: %v", in.ID, err)
		} else {
			sub.MetadataJSON = string(b)
		}
	}

	if in.Customer != nil {
		userID, err := s.repo.FindUserIDByExternalID(in.Customer.ExternalID)
		switch {
		case err == nil:
			sub.UserID = userID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No local account yet; store the subscription unlinked.
		default:
			log.Warnf("[Billing] user lookup failed for external_id=%s: %v", in.Customer.ExternalID, err)
		}
	}

	if err := s.repo.UpsertSubscription(sub); err != nil {
		log.Errorf("[Billing] %s failed: subscription=%s customer=%s status=%s err=%v",
			eventType, in.ID, in.CustomerID, in.Status, err)
		return nil, err
	}
	return sub, nil
}

// GetUserSubscriptions lists the subscriptions linked to a local user,
// newest first.
func (s *Service) GetUserSubscriptions(ctx context.Context, userID uint) ([]models.Subscription, error) {
	_ = ctx
	if userID == 0 {
		return nil, errors.New("user_id is required")
	}
	return s.repo.ListSubscriptionsByUser(userID)
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookSignatureValid upgrades a stored event's signature flag. Used
// when a redelivery verifies after the original delivery did not.
func (s *Service) MarkWebhookSignatureValid(ctx context.Context, webhookEventID uint) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	return s.repo.MarkWebhookSignatureValid(webhookEventID)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
