package middleware

import (
	"context"

	"github.com/thefund-gallery/backend/internal/common"
	"github.com/thefund-gallery/backend/pkg/router"
)

type OnlyAdmin struct {
	adminVerifier *common.AdminVerifier
}

func NewOnlyAdmin(adminVerifier *common.AdminVerifier) *OnlyAdmin {
	return &OnlyAdmin{adminVerifier: adminVerifier}
}

func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if err := a.adminVerifier.Verify(ctx); err != nil {
			return nil, err
		}

		return nil, nil
	}
}
