package xredis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 2, time.Minute)

	ctx := context.Background()

	mock.ExpectIncr("ratelimit:login:a@x.com").SetVal(1)
	mock.ExpectExpire("ratelimit:login:a@x.com", time.Minute).SetVal(true)
	require.NoError(t, limiter.Allow(ctx, "login:a@x.com"))

	mock.ExpectIncr("ratelimit:login:a@x.com").SetVal(2)
	require.NoError(t, limiter.Allow(ctx, "login:a@x.com"))

	mock.ExpectIncr("ratelimit:login:a@x.com").SetVal(3)
	require.ErrorIs(t, limiter.Allow(ctx, "login:a@x.com"), ErrLimitExceeded)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(nil, 5, time.Minute)
	require.NoError(t, limiter.Allow(context.Background(), "anything"))
}
