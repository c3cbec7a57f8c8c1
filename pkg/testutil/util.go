package testutil

import (
	"context"
	"time"

	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/config"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/authenticator"
	"github.com/thefund-gallery/backend/pkg/logger"
	"github.com/thefund-gallery/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "test",
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RememberToken: config.TokenConfigs{
				Name:       "remember_token",
				Expiration: time.Hour,
			},
			AdminSecret: "admin-secret",
			AdminSession: config.TokenConfigs{
				Name:       "admin_session",
				Expiration: time.Hour,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "test_session",
		},
		Raffle: config.RaffleConfigs{
			DefaultTicketPrice: decimal.RequireFromString("25.00"),
			FundTarget:         decimal.RequireFromString("100000.00"),
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
