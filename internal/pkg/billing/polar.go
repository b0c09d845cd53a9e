package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikeskafld/dojo-web/internal/pkg/env"
)

const defaultPolarAPIBaseURL = "https://api.polar.sh/v1"

// PolarClient talks to the Polar REST API with an organization access token.
// It backs the pricing page product listing and on-demand subscription
// lookups; webhook processing itself never calls out.
type PolarClient struct {
	AccessToken string
	APIBaseURL  string

	HTTPClient *http.Client
}

// PolarPrice is one price attached to a product.
type PolarPrice struct {
	ID                string `json:"id"`
	AmountType        string `json:"amount_type"`
	PriceAmount       int64  `json:"price_amount"`
	PriceCurrency     string `json:"price_currency"`
	RecurringInterval string `json:"recurring_interval"`
}

// PolarProduct is a sellable product as returned by GET /products.
type PolarProduct struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsRecurring bool         `json:"is_recurring"`
	IsArchived  bool         `json:"is_archived"`
	Prices      []PolarPrice `json:"prices"`
}

func NewPolarClientFromEnv() *PolarClient {
	return &PolarClient{
		AccessToken: strings.TrimSpace(env.GetEnv("POLAR_ACCESS_TOKEN", "")),
		APIBaseURL:  strings.TrimSpace(env.GetEnv("POLAR_API_BASE_URL", defaultPolarAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// IsConfigured reports whether an access token is present. Pages that show
// live product data fall back to static copy when it is not.
func (c *PolarClient) IsConfigured() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// ListProducts fetches the organization's non-archived products.
func (c *PolarClient) ListProducts(ctx context.Context) ([]PolarProduct, error) {
	if !c.IsConfigured() {
		return nil, errors.New("POLAR_ACCESS_TOKEN is not configured")
	}

	u, err := url.Parse(strings.TrimRight(c.APIBaseURL, "/") + "/products")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("is_archived", "false")
	q.Set("limit", "50")
	u.RawQuery = q.Encode()

	body, err := c.doGet(ctx, u.String())
	if err != nil {
		return nil, err
	}

	var out struct {
		Items []PolarProduct `json:"items"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetSubscription fetches one subscription by its provider id, for support
// tooling and the admin view.
func (c *PolarClient) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionData, error) {
	if !c.IsConfigured() {
		return nil, errors.New("POLAR_ACCESS_TOKEN is not configured")
	}
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return nil, errors.New("subscription id is required")
	}

	body, err := c.doGet(ctx, strings.TrimRight(c.APIBaseURL, "/")+"/subscriptions/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var out SubscriptionData
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("polar subscription response missing id")
	}
	return &out, nil
}

func (c *PolarClient) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("polar request failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return body, nil
}
