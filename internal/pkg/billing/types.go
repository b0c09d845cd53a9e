package billing

import "time"

const ProviderPolar = "polar"

// Subscription lifecycle event kinds delivered by the provider webhook.
const (
	EventSubscriptionCreated    = "subscription.created"
	EventSubscriptionUpdated    = "subscription.updated"
	EventSubscriptionActive     = "subscription.active"
	EventSubscriptionCanceled   = "subscription.canceled"
	EventSubscriptionUncanceled = "subscription.uncanceled"
	EventSubscriptionRevoked    = "subscription.revoked"
)

// IsSubscriptionEvent reports whether the event kind is one of the six
// lifecycle kinds handled by the reconciler.
func IsSubscriptionEvent(eventType string) bool {
	switch eventType {
	case EventSubscriptionCreated,
		EventSubscriptionUpdated,
		EventSubscriptionActive,
		EventSubscriptionCanceled,
		EventSubscriptionUncanceled,
		EventSubscriptionRevoked:
		return true
	default:
		return false
	}
}

// WebhookEnvelope is the raw provider webhook body.
type WebhookEnvelope struct {
	Type string           `json:"type"`
	Data SubscriptionData `json:"data"`
}

// SubscriptionData is the provider's subscription payload. Which of the
// optional timestamps are populated depends on the event kind (a canceled
// event carries canceledAt, a revoked event carries endedAt).
type SubscriptionData struct {
	ID                          string         `json:"id"`
	CustomerID                  string         `json:"customerId"`
	ProductID                   string         `json:"productId"`
	Status                      string         `json:"status"`
	Amount                      int64          `json:"amount"`
	Currency                    string         `json:"currency"`
	RecurringInterval           string         `json:"recurringInterval"`
	CurrentPeriodStart          *time.Time     `json:"currentPeriodStart"`
	CurrentPeriodEnd            *time.Time     `json:"currentPeriodEnd"`
	CancelAtPeriodEnd           *bool          `json:"cancelAtPeriodEnd"`
	CanceledAt                  *time.Time     `json:"canceledAt"`
	StartedAt                   *time.Time     `json:"startedAt"`
	EndsAt                      *time.Time     `json:"endsAt"`
	EndedAt                     *time.Time     `json:"endedAt"`
	DiscountID                  *string        `json:"discountId"`
	CheckoutID                  *string        `json:"checkoutId"`
	CustomerCancellationReason  *string        `json:"customerCancellationReason"`
	CustomerCancellationComment *string        `json:"customerCancellationComment"`
	Metadata                    map[string]any `json:"metadata"`
	Customer                    *CustomerData  `json:"customer"`
}

// CustomerData is the embedded customer object on a subscription payload.
type CustomerData struct {
	ExternalID *string `json:"externalId"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
}

// NormalizedSubscription is the canonical record shape handed to the
// reconciler: all dates ISO-8601 text, absent values preserved as nil.
type NormalizedSubscription struct {
	ID                          string         `json:"id"`
	CustomerID                  string         `json:"customer_id"`
	ProductID                   string         `json:"product_id"`
	Status                      string         `json:"status"`
	Amount                      int64          `json:"amount"`
	Currency                    string         `json:"currency"`
	RecurringInterval           string         `json:"recurring_interval"`
	CurrentPeriodStart          string         `json:"current_period_start"`
	CurrentPeriodEnd            *string        `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd           bool           `json:"cancel_at_period_end"`
	CanceledAt                  *string        `json:"canceled_at,omitempty"`
	StartedAt                   *string        `json:"started_at,omitempty"`
	EndsAt                      *string        `json:"ends_at,omitempty"`
	EndedAt                     *string        `json:"ended_at,omitempty"`
	DiscountID                  *string        `json:"discount_id,omitempty"`
	CheckoutID                  *string        `json:"checkout_id,omitempty"`
	CustomerCancellationReason  *string        `json:"customer_cancellation_reason,omitempty"`
	CustomerCancellationComment *string        `json:"customer_cancellation_comment,omitempty"`
	Metadata                    map[string]any `json:"metadata,omitempty"`
	Customer                    *CustomerRef   `json:"customer,omitempty"`
}

// CustomerRef is the identity-lookup hint passed along only when the
// provider payload carried a customer external id.
type CustomerRef struct {
	ExternalID string `json:"external_id"`
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}
