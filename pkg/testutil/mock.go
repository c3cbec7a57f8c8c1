package testutil

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/pkg/paypal"
)

// MockPayPalClient returns the configured order for every id, or Err if set.
type MockPayPalClient struct {
	Order *paypal.Order
	Err   error
}

func (c *MockPayPalClient) GetOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	order := *c.Order
	order.ID = orderID
	return &order, nil
}

// CompletedOrder builds a COMPLETED capture of the given amount.
func CompletedOrder(amount string, payerEmail string) *paypal.Order {
	return &paypal.Order{
		Status:     paypal.OrderStatusCompleted,
		Amount:     decimal.RequireFromString(amount),
		Currency:   "USD",
		PayerEmail: payerEmail,
		PayerName:  "Test Payer",
	}
}

// MockMailer records every sent message.
type MockMailer struct {
	Sent []MockMail
	Err  error
}

type MockMail struct {
	To      string
	Subject string
	HTML    string
}

func (m *MockMailer) Send(ctx context.Context, to, subject, html string) error {
	if m.Err != nil {
		return m.Err
	}

	m.Sent = append(m.Sent, MockMail{To: to, Subject: subject, HTML: html})
	return nil
}

// MockCaptchaVerifier accepts everything unless Err is set.
type MockCaptchaVerifier struct {
	Err error
}

func (v *MockCaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	return v.Err
}

// MockRateLimiter returns Err on every call, nil by default.
type MockRateLimiter struct {
	Err error
}

func (l *MockRateLimiter) Allow(ctx context.Context, key string) error {
	return l.Err
}
