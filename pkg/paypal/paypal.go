package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/config"
)

// OrderStatusCompleted is the only provider status that releases tickets.
const OrderStatusCompleted = "COMPLETED"

type Order struct {
	ID         string
	Status     string
	Amount     decimal.Decimal
	Currency   string
	PayerEmail string
	PayerName  string
}

// Client verifies captured orders against the provider. The provider itself
// is an opaque external service.
type Client interface {
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}

func NewClient(cfg config.PayPalConfigs) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type httpClient struct {
	cfg    config.PayPalConfigs
	client *http.Client

	mutex       sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
	Payer struct {
		EmailAddress string `json:"email_address"`
		Name         struct {
			GivenName string `json:"given_name"`
			Surname   string `json:"surname"`
		} `json:"name"`
	} `json:"payer"`
}

func (c *httpClient) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}

	if len(order.PurchaseUnits) == 0 {
		return nil, fmt.Errorf("order %s has no purchase units", orderID)
	}

	amount, err := decimal.NewFromString(order.PurchaseUnits[0].Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid order amount: %w", err)
	}

	name := strings.TrimSpace(
		order.Payer.Name.GivenName + " " + order.Payer.Name.Surname)

	return &Order{
		ID:         order.ID,
		Status:     order.Status,
		Amount:     amount,
		Currency:   order.PurchaseUnits[0].Amount.CurrencyCode,
		PayerEmail: strings.ToLower(order.Payer.EmailAddress),
		PayerName:  name,
	}, nil
}

func (c *httpClient) getAccessToken(ctx context.Context) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}
