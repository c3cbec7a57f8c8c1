package domain

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/testutil"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"github.com/thefund-gallery/backend/pkg/xredis"

	"github.com/stretchr/testify/require"
)

func newAuthDomainForTest() *authDomain {
	return NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRememberTokenRepository(),
		repository.NewAdminSessionRepository(),
		&testutil.MockCaptchaVerifier{},
		&testutil.MockRateLimiter{},
	)
}

func Test_authDomain_Signup(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	resp, err := domain.Signup(ctx, &model.SignupRequest{
		Email:       "Carol@Example.com",
		Password:    "Sup3rsecret",
		Name:        "Carol Poe",
		Phone:       "(555) 123-0004",
		CountryCode: "1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "carol@example.com", resp.User.Email)
	require.Equal(t, "+15551230004", resp.User.Phone)

	var info model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &info))
	require.Equal(t, resp.User.ID, info.ID)

	var result entity.User
	tx := xcontext.DB(ctx).Take(&result, "email=?", "carol@example.com")
	require.NoError(t, tx.Error)
	require.Equal(t, entity.RoleUser, result.Role)
	require.NotEqual(t, "Sup3rsecret", result.PasswordHash)
}

func Test_authDomain_Signup_duplicateEmail(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	_, err := domain.Signup(ctx, &model.SignupRequest{
		Email:       "ALICE@example.com",
		Password:    "Sup3rsecret",
		Name:        "Imposter",
		Phone:       "+15551239999",
		CountryCode: "1",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_authDomain_Signup_weakPassword(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	for _, password := range []string{"short1", "alllowercase", "12345678"} {
		_, err := domain.Signup(ctx, &model.SignupRequest{
			Email:       "new@example.com",
			Password:    password,
			Name:        "New User",
			Phone:       "+15551230009",
			CountryCode: "1",
		})

		var errx errorx.Error
		require.ErrorAs(t, err, &errx)
		require.Equal(t, errorx.BadRequest, errx.Code)
	}
}

func Test_authDomain_Login(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	resp, err := domain.Login(ctx, &model.LoginRequest{
		Email:    testutil.User1.Email,
		Password: testutil.Password,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Empty(t, resp.RememberTokenInfo())
	require.Empty(t, resp.AdminToken)

	_, err = domain.Login(ctx, &model.LoginRequest{
		Email:    testutil.User1.Email,
		Password: "wrong-password1",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_authDomain_Login_rateLimited(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRememberTokenRepository(),
		repository.NewAdminSessionRepository(),
		&testutil.MockCaptchaVerifier{},
		&testutil.MockRateLimiter{Err: xredis.ErrLimitExceeded},
	)

	_, err := domain.Login(ctx, &model.LoginRequest{
		Email:    testutil.User1.Email,
		Password: testutil.Password,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TooManyRequests, errx.Code)
}

func Test_authDomain_Login_adminSession(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	resp, err := domain.Login(ctx, &model.LoginRequest{
		Email:    testutil.Admin1.Email,
		Password: testutil.Password,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AdminToken)

	var count int64
	tx := xcontext.DB(ctx).Model(&entity.AdminSession{}).
		Where("user_id=?", testutil.Admin1.ID).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(1), count)
}

func Test_authDomain_RememberMe(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	login, err := domain.Login(ctx, &model.LoginRequest{
		Email:    testutil.User1.Email,
		Password: testutil.Password,
		Remember: true,
	})
	require.NoError(t, err)
	rememberToken := login.RememberTokenInfo()
	require.NotEmpty(t, rememberToken)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/auth/remember-me", nil)
	httpReq.AddCookie(&http.Cookie{Name: "remember_token", Value: rememberToken})
	reqCtx := xcontext.WithHTTPRequest(ctx, httpReq)

	resp, err := domain.RememberMe(reqCtx, &model.RememberMeRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RememberTokenInfo())
	require.NotEqual(t, rememberToken, resp.RememberTokenInfo())

	// The rotated-out token must no longer be usable.
	_, err = domain.RememberMe(reqCtx, &model.RememberMeRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_authDomain_Logout(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	login, err := domain.Login(ctx, &model.LoginRequest{
		Email:    testutil.User1.Email,
		Password: testutil.Password,
		Remember: true,
	})
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	httpReq.AddCookie(&http.Cookie{Name: "remember_token", Value: login.RememberTokenInfo()})
	reqCtx := xcontext.WithHTTPRequest(ctx, httpReq)

	_, err = domain.Logout(reqCtx, &model.LogoutRequest{})
	require.NoError(t, err)

	var count int64
	tx := xcontext.DB(ctx).Model(&entity.RememberToken{}).
		Where("user_id=?", testutil.User1.ID).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(0), count)
}

func Test_authDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newAuthDomainForTest()

	resp, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Email, resp.User.Email)
}
