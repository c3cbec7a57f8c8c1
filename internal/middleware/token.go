package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/thefund-gallery/backend/pkg/router"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

// RememberTokenResponse is implemented by responses carrying an opaque
// remember token. An empty token clears the cookie.
type RememberTokenResponse interface {
	RememberTokenInfo() string
}

func HandleSaveRememberToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		resp, ok := xcontext.Response(ctx).(RememberTokenResponse)
		if !ok {
			return nil, nil
		}

		cfg := xcontext.Configs(ctx)
		cookie := &http.Cookie{
			Name:     cfg.Auth.RememberToken.Name,
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		}

		if token := resp.RememberTokenInfo(); token != "" {
			cookie.Value = token
			cookie.Expires = time.Now().Add(cfg.Auth.RememberToken.Expiration)
		} else {
			cookie.MaxAge = -1
		}

		http.SetCookie(xcontext.HTTPWriter(ctx), cookie)
		return nil, nil
	}
}
