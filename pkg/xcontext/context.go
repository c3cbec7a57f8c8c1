package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/thefund-gallery/backend/config"
	"github.com/thefund-gallery/backend/pkg/authenticator"
	"github.com/thefund-gallery/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey           struct{}
	configsKey      struct{}
	loggerKey       struct{}
	tokenEngineKey  struct{}
	sessionStoreKey struct{}
	httpRequestKey  struct{}
	httpWriterKey   struct{}
	userIDKey       struct{}
	errorKey        struct{}
	startTimeKey    struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database handle of this context. If a transaction was begun
// with WithDBTransaction, the transaction handle is returned instead.
func DB(ctx context.Context) *gorm.DB {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && holder.tx != nil {
		return holder.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	return ctx.Value(sessionStoreKey{}).(sessions.Store)
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	if r, ok := ctx.Value(httpRequestKey{}).(*http.Request); ok {
		return r
	}

	return nil
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	if w, ok := ctx.Value(httpWriterKey{}).(http.ResponseWriter); ok {
		return w
	}

	return nil
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// RequestUserID returns the authenticated user id, or an empty string for an
// anonymous request.
func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}

	return ""
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	if err, ok := ctx.Value(errorKey{}).(error); ok {
		return err
	}

	return nil
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(startTimeKey{}).(time.Time); ok {
		return t
	}

	return time.Time{}
}

type responseKey struct{}

// WithResponse stores the handler response so After middlewares can inspect
// it before it is written to the client.
func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}
