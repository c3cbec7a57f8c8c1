package router

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/thefund-gallery/backend/config"
	"github.com/thefund-gallery/backend/pkg/authenticator"
	"github.com/thefund-gallery/backend/pkg/logger"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. A non-nil returned context replaces
// the request context; a non-nil error aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response was written, regardless of the outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	db           *gorm.DB
	cfg          config.Configs
	logger       logger.Logger
	tokenEngine  authenticator.TokenEngine
	sessionStore sessions.Store

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:          http.NewServeMux(),
		db:           db,
		cfg:          cfg,
		logger:       logger,
		tokenEngine:  authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		sessionStore: newSessionStore(cfg),
	}
}

func newSessionStore(cfg config.Configs) sessions.Store {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}

	return store
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	branch := *r
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	branch.afters = append([]MiddlewareFunc{}, r.afters...)
	branch.closers = append([]CloserFunc{}, r.closers...)
	return &branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Handle mounts a plain http.Handler, e.g. the prometheus endpoint.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc("GET "+pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc("POST "+pattern, wrapHandler(r, http.MethodPost, handler))
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc("PUT "+pattern, wrapHandler(r, http.MethodPut, handler))
}

func PATCH[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc("PATCH "+pattern, wrapHandler(r, http.MethodPatch, handler))
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc("DELETE "+pattern, wrapHandler(r, http.MethodDelete, handler))
}

func wrapHandler[Request, Response any](
	router *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := newRequestContext(router, w, httpReq)

		defer func() {
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		for _, middleware := range router.befores {
			newCtx, err := middleware(ctx)
			if err != nil {
				ctx = writeError(ctx, w, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet, http.MethodDelete:
			err = bindQuery(httpReq, &req)
		default:
			err = bindJSON(httpReq, &req)
		}

		if err == nil {
			err = bindPath(httpReq, &req)
		}

		if err != nil {
			router.logger.Debugf("Cannot bind the request: %v", err)
			ctx = writeError(ctx, w, newBindError())
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ctx = writeError(ctx, w, err)
			return
		}

		ctx = withResponse(ctx, resp)
		for _, middleware := range router.afters {
			newCtx, err := middleware(ctx)
			if err != nil {
				ctx = writeError(ctx, w, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		if err := WriteJson(w, http.StatusOK, newResponse(resp)); err != nil {
			router.logger.Errorf("Cannot write the response: %v", err)
		}
	}
}
