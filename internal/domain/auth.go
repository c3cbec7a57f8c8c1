package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/captcha"
	"github.com/thefund-gallery/backend/pkg/crypto"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"github.com/thefund-gallery/backend/pkg/xredis"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Signup(context.Context, *model.SignupRequest) (*model.SignupResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	RememberMe(context.Context, *model.RememberMeRequest) (*model.RememberMeResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
}

type authDomain struct {
	userRepo          repository.UserRepository
	rememberTokenRepo repository.RememberTokenRepository
	adminSessionRepo  repository.AdminSessionRepository
	captchaVerifier   captcha.Verifier
	loginLimiter      xredis.RateLimiter
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	rememberTokenRepo repository.RememberTokenRepository,
	adminSessionRepo repository.AdminSessionRepository,
	captchaVerifier captcha.Verifier,
	loginLimiter xredis.RateLimiter,
) *authDomain {
	return &authDomain{
		userRepo:          userRepo,
		rememberTokenRepo: rememberTokenRepo,
		adminSessionRepo:  adminSessionRepo,
		captchaVerifier:   captchaVerifier,
		loginLimiter:      loginLimiter,
	}
}

func (d *authDomain) Signup(
	ctx context.Context, req *model.SignupRequest,
) (*model.SignupResponse, error) {
	if err := d.captchaVerifier.Verify(ctx, req.CaptchaResponse, remoteIP(ctx)); err != nil {
		xcontext.Logger(ctx).Debugf("Captcha verification failed: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Captcha verification failed")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := checkEmail(email); err != nil {
		return nil, err
	}

	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	phone, err := normalizePhone(req.CountryCode, req.Phone)
	if err != nil {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:         entity.Base{ID: uuid.NewString()},
		Email:        email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Phone:        phone,
		CountryCode:  req.CountryCode,
		Role:         entity.RoleUser,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "This email has already been registered")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	accessToken, err := generateAccessToken(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SignupResponse{
		User:        model.ConvertUser(user),
		AccessToken: accessToken,
	}, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	if err := d.captchaVerifier.Verify(ctx, req.CaptchaResponse, remoteIP(ctx)); err != nil {
		xcontext.Logger(ctx).Debugf("Captcha verification failed: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Captcha verification failed")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	limiterKey := "login:" + email + ":" + remoteIP(ctx)
	if err := d.loginLimiter.Allow(ctx, limiterKey); err != nil {
		if errors.Is(err, xredis.ErrLimitExceeded) {
			return nil, errorx.New(errorx.TooManyRequests, "Too many login attempts, try again later")
		}

		// The limiter is advisory, a redis outage must not lock users out.
		xcontext.Logger(ctx).Warnf("Cannot check login rate limit: %v", err)
	}

	user, err := d.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		// Burn a verification anyway so a missing account is not
		// distinguishable by response time.
		crypto.VerifyPassword(req.Password, dummyPasswordHash)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	ok, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	accessToken, err := generateAccessToken(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.LoginResponse{
		User:        model.ConvertUser(user),
		AccessToken: accessToken,
	}

	if req.Remember {
		rememberToken, err := d.issueRememberToken(ctx, user.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot issue remember token: %v", err)
			return nil, errorx.Unknown
		}

		resp.SetRememberToken(rememberToken)
	}

	if user.Role == entity.RoleAdmin {
		adminToken, err := d.issueAdminSession(ctx, user.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot issue admin session: %v", err)
			return nil, errorx.Unknown
		}

		resp.AdminToken = adminToken
	}

	return resp, nil
}

func (d *authDomain) RememberMe(
	ctx context.Context, req *model.RememberMeRequest,
) (*model.RememberMeResponse, error) {
	cfg := xcontext.Configs(ctx)
	cookie, err := xcontext.HTTPRequest(ctx).Cookie(cfg.Auth.RememberToken.Name)
	if err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "No remember token")
	}

	token, err := d.rememberTokenRepo.GetByTokenHash(ctx, crypto.SHA256Hex([]byte(cookie.Value)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid remember token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get remember token: %v", err)
		return nil, errorx.Unknown
	}

	if time.Now().After(token.Expiration) {
		if err := d.rememberTokenRepo.DeleteByTokenHash(ctx, token.TokenHash); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete expired remember token: %v", err)
		}

		return nil, errorx.New(errorx.TokenExpired, "Remember token expired")
	}

	newToken, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate remember token: %v", err)
		return nil, errorx.Unknown
	}

	expiration := time.Now().Add(cfg.Auth.RememberToken.Expiration)
	err = d.rememberTokenRepo.Rotate(ctx, token.TokenHash, crypto.SHA256Hex([]byte(newToken)), expiration)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid remember token")
		}

		xcontext.Logger(ctx).Errorf("Cannot rotate remember token: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user of remember token: %v", err)
		return nil, errorx.Unknown
	}

	accessToken, err := generateAccessToken(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.RememberMeResponse{
		User:        model.ConvertUser(user),
		AccessToken: accessToken,
	}
	resp.SetRememberToken(newToken)

	return resp, nil
}

func (d *authDomain) Logout(
	ctx context.Context, req *model.LogoutRequest,
) (*model.LogoutResponse, error) {
	cfg := xcontext.Configs(ctx)
	cookie, err := xcontext.HTTPRequest(ctx).Cookie(cfg.Auth.RememberToken.Name)
	if err == nil && cookie.Value != "" {
		err := d.rememberTokenRepo.DeleteByTokenHash(ctx, crypto.SHA256Hex([]byte(cookie.Value)))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete remember token: %v", err)
		}
	}

	return &model.LogoutResponse{}, nil
}

func (d *authDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}

func (d *authDomain) issueRememberToken(ctx context.Context, userID string) (string, error) {
	token, err := crypto.GenerateRandomString()
	if err != nil {
		return "", err
	}

	err = d.rememberTokenRepo.Create(ctx, &entity.RememberToken{
		UserID:     userID,
		TokenHash:  crypto.SHA256Hex([]byte(token)),
		Expiration: time.Now().Add(xcontext.Configs(ctx).Auth.RememberToken.Expiration),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func (d *authDomain) issueAdminSession(ctx context.Context, userID string) (string, error) {
	token, err := crypto.GenerateRandomString()
	if err != nil {
		return "", err
	}

	err = d.adminSessionRepo.Create(ctx, &entity.AdminSession{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     userID,
		TokenHash:  crypto.SHA256Hex([]byte(token)),
		Expiration: time.Now().Add(xcontext.Configs(ctx).Auth.AdminSession.Expiration),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func generateAccessToken(ctx context.Context, user *entity.User) (string, error) {
	return xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:    user.ID,
			Email: user.Email,
			Role:  string(user.Role),
		},
	)
}

func remoteIP(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(ip)
	}

	host := req.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}

	return host
}

// dummyPasswordHash keeps the failed-lookup path doing the same PBKDF2 work
// as a real verification.
var dummyPasswordHash = func() string {
	h, _ := crypto.HashPassword("not-a-real-password")
	return h
}()
