package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thefund-gallery/backend/config"
)

// Verifier checks a client captcha token against the provider siteverify
// endpoint. hCaptcha and reCAPTCHA share the same wire contract.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

func NewVerifier(cfg config.CaptchaConfigs) Verifier {
	if cfg.Secret == "" {
		return nopVerifier{}
	}

	return &httpVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type httpVerifier struct {
	cfg    config.CaptchaConfigs
	client *http.Client
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *httpVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("missing captcha token")
	}

	form := url.Values{}
	form.Set("secret", v.cfg.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost, v.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("captcha rejected: %v", result.ErrorCodes)
	}

	return nil
}

// nopVerifier accepts everything. Used when no secret is configured, which is
// a startup error in production mode.
type nopVerifier struct{}

func (nopVerifier) Verify(context.Context, string, string) error {
	return nil
}
