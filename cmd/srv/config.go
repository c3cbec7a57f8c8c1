package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/config"
)

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "dev"),
		ApiServer: config.ServerConfigs{
			Host:           getEnv("HOST", "localhost"),
			Port:           getEnv("PORT", "8080"),
			MetricsPort:    getEnv("METRICS_PORT", ""),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "thefund"),
			User:     getEnv("MYSQL_USER", "thefund"),
			Password: getEnv("MYSQL_PASSWORD", "thefund"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getDuration("ACCESS_TOKEN_DURATION", time.Hour*24*7),
			},
			RememberToken: config.TokenConfigs{
				Name:       "remember_token",
				Expiration: getDuration("REMEMBER_TOKEN_DURATION", time.Hour*24*30),
			},
			AdminSecret: getEnv("ADMIN_SECRET", ""),
			AdminSession: config.TokenConfigs{
				Name:       "admin_session",
				Expiration: getDuration("ADMIN_SESSION_DURATION", time.Hour*12),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session-secret"),
			Name:   getEnv("SESSION_NAME", "thefund_session"),
		},
		Captcha: config.CaptchaConfigs{
			VerifyURL: getEnv("CAPTCHA_VERIFY_URL", "https://hcaptcha.com/siteverify"),
			Secret:    getEnv("CAPTCHA_SECRET", ""),
		},
		PayPal: config.PayPalConfigs{
			BaseURL:      getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
		},
		Mail: config.MailConfigs{
			FromEmail:    getEnv("MAIL_FROM", "no-reply@thefund.gallery"),
			SMTPEnabled:  getEnv("SMTP_HOST", "") != "",
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPass:     getEnv("SMTP_PASS", ""),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		},
		Redis: config.RedisConfigs{
			Addr:               getEnv("REDIS_ADDR", ""),
			LoginAttemptLimit:  getInt("LOGIN_ATTEMPT_LIMIT", 10),
			LoginAttemptWindow: getDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		},
		Raffle: config.RaffleConfigs{
			DefaultTicketPrice: getDecimal("DEFAULT_TICKET_PRICE", "25.00"),
			FundTarget:         getDecimal("FUND_TARGET", "100000.00"),
		},
	}

	if s.configs.IsProduction() {
		s.checkRequiredSecrets()
	}
}

// checkRequiredSecrets refuses to start a production server on default
// credentials.
func (s *srv) checkRequiredSecrets() {
	required := map[string]string{
		"TOKEN_SECRET":         getEnv("TOKEN_SECRET", ""),
		"SESSION_SECRET":       getEnv("SESSION_SECRET", ""),
		"PAYPAL_CLIENT_ID":     s.configs.PayPal.ClientID,
		"PAYPAL_CLIENT_SECRET": s.configs.PayPal.ClientSecret,
	}

	for name, value := range required {
		if value == "" {
			panic(fmt.Sprintf("missing required environment variable %s", name))
		}
	}
}

func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}

	return value
}

func getInt(key string, def int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}

	return value
}

func getDecimal(key, def string) decimal.Decimal {
	value, err := decimal.NewFromString(os.Getenv(key))
	if err != nil {
		return decimal.RequireFromString(def)
	}

	return value
}
