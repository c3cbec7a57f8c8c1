package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/router"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
	optional       bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

// WithOptional lets anonymous requests through without a user id instead of
// rejecting them.
func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if a.useAccessToken {
			token := getAccessToken(xcontext.HTTPRequest(ctx))
			if token == "" {
				if a.optional {
					return nil, nil
				}

				return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
			}

			var info model.AccessToken
			if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
				return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
			}

			return xcontext.WithRequestUserID(ctx, info.ID), nil
		}

		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

func getAccessToken(req *http.Request) string {
	authorization := req.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authorization, "Bearer "); found {
		return token
	}

	return ""
}
