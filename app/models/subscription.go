package models

import "time"

const (
	SubscriptionIntervalMonth = "month"
	SubscriptionIntervalYear  = "year"
)

// Lifecycle states as delivered by the payments provider. The provider
// event is authoritative; we store whatever status it carries.
const (
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusActive     = "active"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusUnpaid     = "unpaid"
	SubscriptionStatusRevoked    = "revoked"
)

// Subscription mirrors one provider subscription per user. The primary key
// is the provider subscription id, so replayed webhook deliveries land on
// the same row.
type Subscription struct {
	ID                          string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID                      *uint      `gorm:"index" json:"user_id,omitempty"`
	CustomerID                  string     `gorm:"type:varchar(64);not null;index" json:"customer_id"`
	ProductID                   string     `gorm:"type:varchar(64);not null" json:"product_id"`
	Status                      string     `gorm:"type:varchar(32);not null;index" json:"status"`
	Amount                      int64      `gorm:"not null;default:0" json:"amount"`
	Currency                    string     `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	RecurringInterval           string     `gorm:"type:varchar(16);not null;default:'month'" json:"recurring_interval"`
	CurrentPeriodStart          time.Time  `gorm:"type:timestamp;not null" json:"current_period_start"`
	CurrentPeriodEnd            *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd           bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CanceledAt                  *time.Time `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	StartedAt                   *time.Time `gorm:"type:timestamp;default:null" json:"started_at,omitempty"`
	EndsAt                      *time.Time `gorm:"type:timestamp;default:null" json:"ends_at,omitempty"`
	EndedAt                     *time.Time `gorm:"type:timestamp;default:null" json:"ended_at,omitempty"`
	DiscountID                  string     `gorm:"type:varchar(64);default:null" json:"discount_id,omitempty"`
	CheckoutID                  string     `gorm:"type:varchar(64);default:null" json:"checkout_id,omitempty"`
	CustomerCancellationReason  string     `gorm:"type:varchar(191);default:null" json:"customer_cancellation_reason,omitempty"`
	CustomerCancellationComment string     `gorm:"type:text" json:"customer_cancellation_comment,omitempty"`
	MetadataJSON                string     `gorm:"type:longtext" json:"metadata_json"`
	CreatedAt                   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEntitling reports whether the subscription grants access in its
// current state.
func (s *Subscription) IsEntitling() bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}
