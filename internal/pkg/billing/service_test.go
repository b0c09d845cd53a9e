package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/mikeskafld/dojo-web/app/models"
)

type fakeRepository struct {
	subs      map[string]models.Subscription
	users     map[string]uint
	events    map[string]models.BillingWebhookEvent
	nextID    uint
	lookups   int
	upsertErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		subs:   make(map[string]models.Subscription),
		users:  make(map[string]uint),
		events: make(map[string]models.BillingWebhookEvent),
	}
}

func (f *fakeRepository) UpsertSubscription(sub *models.Subscription) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if existing, ok := f.subs[sub.ID]; ok {
		sub.CreatedAt = existing.CreatedAt
	} else {
		sub.CreatedAt = time.Now()
	}
	sub.UpdatedAt = time.Now()
	f.subs[sub.ID] = *sub
	return nil
}

func (f *fakeRepository) GetSubscriptionByID(id string) (*models.Subscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sub, nil
}

func (f *fakeRepository) ListSubscriptionsByUser(userID uint) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range f.subs {
		if sub.UserID != nil && *sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindUserIDByExternalID(externalID string) (*uint, error) {
	f.lookups++
	id, ok := f.users[externalID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &id, nil
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := event.Provider + "|" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		return false, &stored, nil
	}
	f.nextID++
	event.ID = f.nextID
	f.events[key] = *event
	stored := f.events[key]
	return true, &stored, nil
}

func (f *fakeRepository) MarkWebhookSignatureValid(id uint) error {
	for key, event := range f.events {
		if event.ID == id {
			event.SignatureValid = true
			f.events[key] = event
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for key, event := range f.events {
		if event.ID == id {
			now := time.Now()
			event.ProcessedAt = &now
			event.ProcessingError = processingError
			f.events[key] = event
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestApplySubscriptionEvent_RequiresID(t *testing.T) {
	svc := NewService(newFakeRepository())
	_, err := svc.ApplySubscriptionEvent(context.Background(), EventSubscriptionCreated, NormalizedSubscription{})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestApplySubscriptionEvent_StoresFullRecord(t *testing.T) {
	repo := newFakeRepository()
	repo.users["user-ext-1"] = 42
	svc := NewService(repo)

	end := "2026-02-15T10:30:00Z"
	sub, err := svc.ApplySubscriptionEvent(context.Background(), EventSubscriptionCreated, NormalizedSubscription{
		ID:                 "sub_abc",
		CustomerID:         "cus_1",
		ProductID:          "prod_1",
		Status:             models.SubscriptionStatusActive,
		Amount:             1999,
		Currency:           "usd",
		RecurringInterval:  models.SubscriptionIntervalMonth,
		CurrentPeriodStart: "2026-01-15T10:30:00Z",
		CurrentPeriodEnd:   &end,
		Metadata:           map[string]any{"plan": "pro"},
		Customer:           &CustomerRef{ExternalID: "user-ext-1"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sub.UserID == nil || *sub.UserID != 42 {
		t.Fatalf("expected linked user 42, got %v", sub.UserID)
	}
	if !sub.CurrentPeriodStart.Equal(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("currentPeriodStart = %v", sub.CurrentPeriodStart)
	}
	if sub.CurrentPeriodEnd == nil || !sub.CurrentPeriodEnd.Equal(time.Date(2026, 2, 15, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("currentPeriodEnd = %v", sub.CurrentPeriodEnd)
	}
	if sub.MetadataJSON != `{"plan":"pro"}` {
		t.Fatalf("metadata = %q", sub.MetadataJSON)
	}
}

func TestApplySubscriptionEvent_ReplayOverwritesSameRow(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	base := NormalizedSubscription{
		ID:                 "sub_replay",
		CustomerID:         "cus_1",
		ProductID:          "prod_1",
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: "2026-01-01T00:00:00Z",
	}
	if _, err := svc.ApplySubscriptionEvent(context.Background(), EventSubscriptionCreated, base); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	canceledAt := "2026-01-10T09:15:00Z"
	update := base
	update.Status = models.SubscriptionStatusCanceled
	update.CancelAtPeriodEnd = true
	update.CanceledAt = &canceledAt
	if _, err := svc.ApplySubscriptionEvent(context.Background(), EventSubscriptionCanceled, update); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if len(repo.subs) != 1 {
		t.Fatalf("expected a single row, got %d", len(repo.subs))
	}
	stored := repo.subs["sub_replay"]
	if stored.Status != models.SubscriptionStatusCanceled || !stored.CancelAtPeriodEnd {
		t.Fatalf("replay did not overwrite: %+v", stored)
	}
	if stored.CanceledAt == nil {
		t.Fatalf("expected canceledAt stored")
	}
	if stored.CurrentPeriodEnd != nil {
		t.Fatalf("expected absent currentPeriodEnd to stay nil")
	}
}

func TestApplySubscriptionEvent_UnknownCustomerStoresUnlinked(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	sub, err := svc.ApplySubscriptionEvent(context.Background(), EventSubscriptionActive, NormalizedSubscription{
		ID:                 "sub_orphan",
		CustomerID:         "cus_2",
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: "2026-01-01T00:00:00Z",
		Customer:           &CustomerRef{ExternalID: "nobody"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sub.UserID != nil {
		t.Fatalf("expected unlinked subscription, got user %v", sub.UserID)
	}
}

func TestApplySubscriptionEvent_NoCustomerHintSkipsLookup(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	if _, err := svc.ApplySubscriptionEvent(context.Background(), EventSubscriptionUpdated, NormalizedSubscription{
		ID:                 "sub_nohint",
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: "2026-01-01T00:00:00Z",
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if repo.lookups != 0 {
		t.Fatalf("expected no user lookup, got %d", repo.lookups)
	}
}

func TestApplySubscriptionEvent_BadPeriodStartFallsBackToNow(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldNow := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = oldNow }()

	repo := newFakeRepository()
	svc := NewService(repo)
	sub, err := svc.ApplySubscriptionEvent(context.Background(), EventSubscriptionCreated, NormalizedSubscription{
		ID:     "sub_nodate",
		Status: models.SubscriptionStatusActive,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !sub.CurrentPeriodStart.Equal(fixed) {
		t.Fatalf("expected fallback to now, got %v", sub.CurrentPeriodStart)
	}
}

func TestApplySubscriptionEvent_CanceledEndToEnd(t *testing.T) {
	raw := []byte(`{
		"type": "subscription.canceled",
		"data": {
			"id": "sub_1",
			"customerId": "cus_1",
			"productId": "prod_1",
			"status": "canceled",
			"amount": 999,
			"currency": "usd",
			"recurringInterval": "month",
			"currentPeriodStart": "2026-06-01T00:00:00Z",
			"cancelAtPeriodEnd": true,
			"canceledAt": "2026-06-10T12:00:00Z"
		}
	}`)

	envelope, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	repo := newFakeRepository()
	svc := NewService(repo)
	sub, err := svc.ApplySubscriptionEvent(context.Background(), envelope.Type, Normalize(envelope.Data))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if sub.Status != models.SubscriptionStatusCanceled {
		t.Fatalf("status = %q", sub.Status)
	}
	if !sub.CancelAtPeriodEnd {
		t.Fatalf("expected cancelAtPeriodEnd true")
	}
	if sub.CanceledAt == nil || !sub.CanceledAt.Equal(time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("canceledAt = %v", sub.CanceledAt)
	}
	if sub.Amount != 999 || sub.Currency != "usd" || sub.RecurringInterval != models.SubscriptionIntervalMonth {
		t.Fatalf("unexpected row: %+v", sub)
	}
}

func TestRecordWebhookEvent_Dedupes(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	in := WebhookEventInput{
		Provider:        "Polar",
		ProviderEventID: "evt_1",
		EventType:       EventSubscriptionCreated,
		PayloadJSON:     `{"type":"subscription.created"}`,
		SignatureValid:  true,
	}

	created, event, err := svc.RecordWebhookEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !created {
		t.Fatalf("expected first delivery to create")
	}
	if event.Provider != ProviderPolar {
		t.Fatalf("expected provider lowercased, got %q", event.Provider)
	}

	created, replay, err := svc.RecordWebhookEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("record replay: %v", err)
	}
	if created {
		t.Fatalf("expected replay to dedupe")
	}
	if replay.ID != event.ID {
		t.Fatalf("expected same stored event, got %d and %d", event.ID, replay.ID)
	}
}

func TestRecordWebhookEvent_HashesMissingEventID(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	payload := `{"type":"subscription.updated","data":{"id":"sub_1"}}`
	created, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    ProviderPolar,
		EventType:   EventSubscriptionUpdated,
		PayloadJSON: payload,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !created {
		t.Fatalf("expected create")
	}
	if len(event.ProviderEventID) != len("hash:")+64 || event.ProviderEventID[:5] != "hash:" {
		t.Fatalf("expected sha256 fallback id, got %q", event.ProviderEventID)
	}

	created, _, err = svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    ProviderPolar,
		EventType:   EventSubscriptionUpdated,
		PayloadJSON: payload,
	})
	if err != nil {
		t.Fatalf("record replay: %v", err)
	}
	if created {
		t.Fatalf("expected identical payload to dedupe on the hash id")
	}
}

func TestMarkWebhookProcessed_StoresError(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	_, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        ProviderPolar,
		ProviderEventID: "evt_err",
		EventType:       EventSubscriptionRevoked,
		PayloadJSON:     `{}`,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := svc.MarkWebhookProcessed(context.Background(), event.ID, errors.New("sync failed")); err != nil {
		t.Fatalf("mark: %v", err)
	}
	stored := repo.events[ProviderPolar+"|evt_err"]
	if stored.ProcessedAt == nil || stored.ProcessingError != "sync failed" {
		t.Fatalf("expected processed with error, got %+v", stored)
	}
}

func TestRedeliveryAfterFailedSyncReprocesses(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	in := WebhookEventInput{
		Provider:        ProviderPolar,
		ProviderEventID: "evt_retry",
		EventType:       EventSubscriptionCreated,
		PayloadJSON:     `{"type":"subscription.created"}`,
		SignatureValid:  true,
	}
	normalized := NormalizedSubscription{
		ID:                 "sub_retry",
		CustomerID:         "cus_1",
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: "2026-01-01T00:00:00Z",
	}

	// First delivery: the write fails and the failure is recorded.
	created, event, err := svc.RecordWebhookEvent(context.Background(), in)
	if err != nil || !created {
		t.Fatalf("first record: created=%v err=%v", created, err)
	}
	repo.upsertErr = errors.New("connection refused")
	if _, err := svc.ApplySubscriptionEvent(context.Background(), in.EventType, normalized); err == nil {
		t.Fatalf("expected failed sync")
	}
	if err := svc.MarkWebhookProcessed(context.Background(), event.ID, errors.New("connection refused")); err != nil {
		t.Fatalf("mark failed delivery: %v", err)
	}
	if len(repo.subs) != 0 {
		t.Fatalf("expected no subscription row after failed sync")
	}

	// Redelivery with the same event id: the stored event must not count
	// as a completed duplicate, and processing must run again.
	created, stored, err := svc.RecordWebhookEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("redelivery record: %v", err)
	}
	if created {
		t.Fatalf("expected redelivery to hit the stored event")
	}
	if stored.ProcessedOK() {
		t.Fatalf("failed delivery must not read as processed: %+v", stored)
	}

	repo.upsertErr = nil
	if _, err := svc.ApplySubscriptionEvent(context.Background(), in.EventType, normalized); err != nil {
		t.Fatalf("redelivery sync: %v", err)
	}
	if err := svc.MarkWebhookProcessed(context.Background(), event.ID, nil); err != nil {
		t.Fatalf("mark redelivery: %v", err)
	}

	if _, ok := repo.subs["sub_retry"]; !ok {
		t.Fatalf("expected subscription row after redelivery")
	}
	final := repo.events[ProviderPolar+"|evt_retry"]
	if !final.ProcessedOK() {
		t.Fatalf("expected completed event after redelivery, got %+v", final)
	}
}

func TestRedeliveryUpgradesSignatureFlag(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	// A delivery that failed verification claims the event id first.
	created, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        ProviderPolar,
		ProviderEventID: "evt_claimed",
		EventType:       EventSubscriptionCreated,
		PayloadJSON:     `{}`,
		SignatureValid:  false,
	})
	if err != nil || !created {
		t.Fatalf("first record: created=%v err=%v", created, err)
	}
	if err := svc.MarkWebhookProcessed(context.Background(), event.ID, errors.New("invalid webhook signature")); err != nil {
		t.Fatalf("mark: %v", err)
	}

	created, stored, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        ProviderPolar,
		ProviderEventID: "evt_claimed",
		EventType:       EventSubscriptionCreated,
		PayloadJSON:     `{}`,
		SignatureValid:  true,
	})
	if err != nil {
		t.Fatalf("redelivery record: %v", err)
	}
	if created || stored.ProcessedOK() {
		t.Fatalf("rejected delivery must stay reprocessable: created=%v stored=%+v", created, stored)
	}
	if stored.SignatureValid {
		t.Fatalf("stored flag should still reflect the first delivery")
	}

	if err := svc.MarkWebhookSignatureValid(context.Background(), stored.ID); err != nil {
		t.Fatalf("upgrade flag: %v", err)
	}
	upgraded := repo.events[ProviderPolar+"|evt_claimed"]
	if !upgraded.SignatureValid {
		t.Fatalf("expected signature flag upgraded")
	}
}

func TestGetUserSubscriptions_RequiresUser(t *testing.T) {
	svc := NewService(newFakeRepository())
	if _, err := svc.GetUserSubscriptions(context.Background(), 0); err == nil {
		t.Fatalf("expected error for missing user id")
	}
}
