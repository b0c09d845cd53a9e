package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mikeskafld/dojo-web/internal/pkg/billing"
	"github.com/mikeskafld/dojo-web/internal/pkg/database"
	"github.com/mikeskafld/dojo-web/internal/pkg/env"
	"github.com/mikeskafld/dojo-web/internal/pkg/usercontext"
)

// HandlePolarWebhook receives Polar billing events. Every delivery is
// persisted before any processing, replays answer 200 without touching
// subscription rows, and only the six subscription lifecycle kinds reach
// the reconciler.
func HandlePolarWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	webhookID := firstHeaderValue(c, "webhook-id", "svix-id")
	timestamp := firstHeaderValue(c, "webhook-timestamp", "svix-timestamp")
	signature := firstHeaderValue(c, "webhook-signature", "svix-signature")
	secret := env.GetEnv("POLAR_WEBHOOK_SECRET", "")

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	eventType := ""
	if decoded, err := billing.DecodeEnvelope(rawBody); err == nil {
		eventType = strings.TrimSpace(decoded.Type)
	}

	signatureValid := billing.VerifyPolarWebhookSignature(rawBody, webhookID, timestamp, signature, secret)
	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        billing.ProviderPolar,
		ProviderEventID: webhookID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		// Only a delivery that completed without error short-circuits.
		// A failed or never-finished first attempt must be reprocessed,
		// since the provider retries exactly because we answered non-2xx.
		if stored.ProcessedOK() {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
		}
		if signatureValid && !stored.SignatureValid {
			// An unsigned sender must not be able to claim a webhook id
			// ahead of the real delivery.
			if markErr := svc.MarkWebhookSignatureValid(ctx, stored.ID); markErr != nil {
				log.Warnf("[Billing] signature flag update failed for event=%d: %v", stored.ID, markErr)
			}
		}
	}
	if !signatureValid {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	envelope, err := billing.DecodeEnvelope(rawBody)
	if err != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	if !billing.IsSubscriptionEvent(envelope.Type) {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}
	if strings.TrimSpace(envelope.Data.ID) == "" {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, billing.ErrInvalidPayload)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	normalized := billing.Normalize(envelope.Data)
	_, syncErr := svc.ApplySubscriptionEvent(ctx, envelope.Type, normalized)
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, syncErr)
	if syncErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "subscription_sync_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// HandleUserBilling renders the logged-in user's subscription overview.
// The stored rows are the source of truth; when a Polar token is configured
// the current provider state is overlaid so the page reflects changes that
// have not been delivered by webhook yet.
func HandleUserBilling(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	subs, err := svc.GetUserSubscriptions(context.Background(), userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load billing data")
	}

	if client := billing.NewPolarClientFromEnv(); client.IsConfigured() && len(subs) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for i := range subs {
			live, liveErr := client.GetSubscription(ctx, subs[i].ID)
			if liveErr != nil {
				log.Warnf("[Billing] live lookup failed for subscription=%s: %v", subs[i].ID, liveErr)
				continue
			}
			subs[i].Status = live.Status
			subs[i].Amount = live.Amount
			subs[i].CurrentPeriodEnd = live.CurrentPeriodEnd
			if live.CancelAtPeriodEnd != nil {
				subs[i].CancelAtPeriodEnd = *live.CancelAtPeriodEnd
			}
		}
	}

	return renderPage(c, "user_billing", " | Billing", nil, fiber.Map{
		"Subscriptions":    subs,
		"HasSubscriptions": len(subs) > 0,
	})
}
