package common

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/thefund-gallery/backend/config"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/crypto"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminVerifier checks that the current request carries an admin
// credential. Providers are tried in the order they were configured and
// the first one that accepts wins.
type AdminVerifier struct {
	providers []adminProvider
}

type adminProvider interface {
	verify(ctx context.Context, token string) error
}

func NewAdminVerifier(
	cfg config.AuthConfigs,
	adminSessionRepo repository.AdminSessionRepository,
	userRepo repository.UserRepository,
) *AdminVerifier {
	verifier := &AdminVerifier{}
	if cfg.AdminSecret != "" {
		verifier.providers = append(verifier.providers, staticSecretProvider{secret: cfg.AdminSecret})
	}

	if adminSessionRepo != nil {
		verifier.providers = append(verifier.providers, sessionProvider{
			adminSessionRepo: adminSessionRepo,
			userRepo:         userRepo,
		})
	}

	return verifier
}

func (verifier *AdminVerifier) Verify(ctx context.Context) error {
	token := xcontext.HTTPRequest(ctx).Header.Get(AdminTokenHeader)
	if token == "" {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	for _, provider := range verifier.providers {
		if err := provider.verify(ctx, token); err == nil {
			return nil
		}
	}

	return errorx.New(errorx.PermissionDenied, "Permission denied")
}

type staticSecretProvider struct {
	secret string
}

func (p staticSecretProvider) verify(ctx context.Context, token string) error {
	if subtle.ConstantTimeCompare([]byte(token), []byte(p.secret)) != 1 {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

type sessionProvider struct {
	adminSessionRepo repository.AdminSessionRepository
	userRepo         repository.UserRepository
}

func (p sessionProvider) verify(ctx context.Context, token string) error {
	session, err := p.adminSessionRepo.GetByTokenHash(ctx, crypto.SHA256Hex([]byte(token)))
	if err != nil {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if time.Now().After(session.Expiration) {
		return errorx.New(errorx.TokenExpired, "Session expired")
	}

	user, err := p.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get admin session user: %v", err)
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if user.Role != entity.RoleAdmin {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}
