package billing

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIsSubscriptionEvent(t *testing.T) {
	for _, kind := range []string{
		"subscription.created",
		"subscription.updated",
		"subscription.active",
		"subscription.canceled",
		"subscription.uncanceled",
		"subscription.revoked",
	} {
		if !IsSubscriptionEvent(kind) {
			t.Fatalf("expected %q to be a subscription event", kind)
		}
	}
	for _, kind := range []string{"order.created", "checkout.updated", "", "subscription"} {
		if IsSubscriptionEvent(kind) {
			t.Fatalf("expected %q to be ignored", kind)
		}
	}
}

func TestNormalize_DatesBecomeISO(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	end := time.Date(2026, 2, 15, 10, 30, 0, 0, time.UTC)
	canceled := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)
	yes := true

	n := Normalize(SubscriptionData{
		ID:                 "sub_123",
		CustomerID:         "cus_456",
		ProductID:          "prod_789",
		Status:             "active",
		Amount:             1999,
		Currency:           "usd",
		RecurringInterval:  "month",
		CurrentPeriodStart: &start,
		CurrentPeriodEnd:   &end,
		CancelAtPeriodEnd:  &yes,
		CanceledAt:         &canceled,
	})

	if n.CurrentPeriodStart != "2026-01-15T10:30:00Z" {
		t.Fatalf("currentPeriodStart = %q", n.CurrentPeriodStart)
	}
	if n.CurrentPeriodEnd == nil || *n.CurrentPeriodEnd != "2026-02-15T10:30:00Z" {
		t.Fatalf("currentPeriodEnd = %v", n.CurrentPeriodEnd)
	}
	if n.CanceledAt == nil || *n.CanceledAt != "2026-01-20T08:00:00Z" {
		t.Fatalf("canceledAt = %v", n.CanceledAt)
	}
	if !n.CancelAtPeriodEnd {
		t.Fatalf("expected cancelAtPeriodEnd true")
	}
	if n.StartedAt != nil || n.EndsAt != nil || n.EndedAt != nil {
		t.Fatalf("expected absent dates to stay nil")
	}
}

func TestNormalize_MissingPeriodStartFallsBackToNow(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldNow := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = oldNow }()

	n := Normalize(SubscriptionData{ID: "sub_1", Status: "active"})
	if n.CurrentPeriodStart != "2026-03-01T12:00:00Z" {
		t.Fatalf("expected fallback to now, got %q", n.CurrentPeriodStart)
	}
	if n.CancelAtPeriodEnd {
		t.Fatalf("expected cancelAtPeriodEnd to default false")
	}
}

func TestNormalize_CustomerHintOnlyWithExternalID(t *testing.T) {
	ext := "user-ext-1"
	empty := ""

	withHint := Normalize(SubscriptionData{ID: "s1", Customer: &CustomerData{ExternalID: &ext}})
	if withHint.Customer == nil || withHint.Customer.ExternalID != ext {
		t.Fatalf("expected customer hint, got %+v", withHint.Customer)
	}

	noID := Normalize(SubscriptionData{ID: "s2", Customer: &CustomerData{ExternalID: &empty}})
	if noID.Customer != nil {
		t.Fatalf("expected empty external id to drop the hint")
	}

	noCustomer := Normalize(SubscriptionData{ID: "s3"})
	if noCustomer.Customer != nil {
		t.Fatalf("expected absent customer to drop the hint")
	}
}

func TestNormalize_CustomerHintJSONShape(t *testing.T) {
	ext := "user-ext-2"
	n := Normalize(SubscriptionData{ID: "s1", Customer: &CustomerData{ExternalID: &ext}})

	b, err := json.Marshal(n.Customer)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"external_id":"user-ext-2"}` {
		t.Fatalf("unexpected customer hint shape: %s", b)
	}
}

func TestDecodeEnvelope(t *testing.T) {
	raw := []byte(`{
		"type": "subscription.canceled",
		"data": {
			"id": "sub_abc",
			"customerId": "cus_def",
			"productId": "prod_ghi",
			"status": "canceled",
			"amount": 2999,
			"currency": "usd",
			"recurringInterval": "month",
			"currentPeriodStart": "2026-01-01T00:00:00Z",
			"cancelAtPeriodEnd": true,
			"canceledAt": "2026-01-10T09:15:00Z"
		}
	}`)

	envelope, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Type != EventSubscriptionCanceled {
		t.Fatalf("type = %q", envelope.Type)
	}
	if envelope.Data.ID != "sub_abc" || envelope.Data.Amount != 2999 {
		t.Fatalf("unexpected data: %+v", envelope.Data)
	}
	if envelope.Data.CancelAtPeriodEnd == nil || !*envelope.Data.CancelAtPeriodEnd {
		t.Fatalf("expected cancelAtPeriodEnd true")
	}
	if envelope.Data.CanceledAt == nil {
		t.Fatalf("expected canceledAt set")
	}

	if _, err := DecodeEnvelope([]byte("not json")); err == nil {
		t.Fatalf("expected decode error for invalid payload")
	}
}
