package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Configs struct {
	Env string

	ApiServer ServerConfigs
	Database  DatabaseConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Captcha   CaptchaConfigs
	PayPal    PayPalConfigs
	Mail      MailConfigs
	Redis     RedisConfigs
	Raffle    RaffleConfigs
}

func (c Configs) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

type ServerConfigs struct {
	Host string
	Port string

	MetricsPort    string
	AllowedOrigins []string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type AuthConfigs struct {
	TokenSecret string

	AccessToken   TokenConfigs
	RememberToken TokenConfigs

	// AdminSecret is the static operator token. When empty, admin requests
	// are verified against the admin_sessions table instead.
	AdminSecret  string
	AdminSession TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type CaptchaConfigs struct {
	// VerifyURL points to the provider siteverify endpoint, either hCaptcha
	// or reCAPTCHA. An empty Secret disables verification.
	VerifyURL string
	Secret    string
}

type PayPalConfigs struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type MailConfigs struct {
	FromEmail string

	SMTPEnabled bool
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string

	ResendAPIKey string
}

type RedisConfigs struct {
	Addr string

	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration
}

type RaffleConfigs struct {
	DefaultTicketPrice decimal.Decimal
	FundTarget         decimal.Decimal
}
