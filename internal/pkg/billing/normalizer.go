package billing

import "time"

// nowFunc is swapped in tests to pin the fallback clock.
var nowFunc = time.Now

// Normalize converts a raw provider subscription payload into the canonical
// record shape. All timestamps become ISO-8601 UTC text, currentPeriodStart
// falls back to the current time when the provider omits it, and
// cancelAtPeriodEnd defaults to false. A customer lookup hint is attached
// only when the payload carried a non-empty customer external id.
func Normalize(data SubscriptionData) NormalizedSubscription {
	n := NormalizedSubscription{
		ID:                          data.ID,
		CustomerID:                  data.CustomerID,
		ProductID:                   data.ProductID,
		Status:                      data.Status,
		Amount:                      data.Amount,
		Currency:                    data.Currency,
		RecurringInterval:           data.RecurringInterval,
		CurrentPeriodStart:          ensureRequiredDate(data.CurrentPeriodStart),
		CurrentPeriodEnd:            convertDateToISO(data.CurrentPeriodEnd),
		CanceledAt:                  convertDateToISO(data.CanceledAt),
		StartedAt:                   convertDateToISO(data.StartedAt),
		EndsAt:                      convertDateToISO(data.EndsAt),
		EndedAt:                     convertDateToISO(data.EndedAt),
		DiscountID:                  data.DiscountID,
		CheckoutID:                  data.CheckoutID,
		CustomerCancellationReason:  data.CustomerCancellationReason,
		CustomerCancellationComment: data.CustomerCancellationComment,
		Metadata:                    data.Metadata,
	}

	if data.CancelAtPeriodEnd != nil {
		n.CancelAtPeriodEnd = *data.CancelAtPeriodEnd
	}

	if data.Customer != nil && data.Customer.ExternalID != nil && *data.Customer.ExternalID != "" {
		n.Customer = &CustomerRef{ExternalID: *data.Customer.ExternalID}
	}

	return n
}

// convertDateToISO formats an optional timestamp as ISO-8601 UTC text,
// preserving absence as nil.
func convertDateToISO(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ensureRequiredDate formats a timestamp that the subscription record
// requires, substituting the current time when the provider omitted it.
func ensureRequiredDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return nowFunc().UTC().Format(time.RFC3339)
	}
	return t.UTC().Format(time.RFC3339)
}

// parseISO reads an ISO-8601 string produced by the normalizer back into a
// time value for persistence.
func parseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// parseISOPtr is the optional-field variant of parseISO. Unparseable or
// absent values map to nil.
func parseISOPtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := parseISO(*s)
	if err != nil {
		return nil
	}
	return &t
}
