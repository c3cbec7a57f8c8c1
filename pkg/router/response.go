package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type response struct {
	Success bool   `json:"success"`
	Code    int64  `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Success: true,
		Data:    data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return httpStatus(errx.Code), response{
			Success: false,
			Code:    int64(errx.Code),
			Error:   errx.Message,
		}
	}

	return http.StatusInternalServerError, response{
		Success: false,
		Code:    int64(errorx.Unknown.Code),
		Error:   errorx.Unknown.Message,
	}
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest, errorx.Unavailable,
		errorx.RaffleImmutable, errorx.RaffleNoEntries:
		return http.StatusBadRequest
	case errorx.Unauthenticated, errorx.TokenExpired:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists, errorx.RaffleAlreadyDrawn:
		return http.StatusConflict
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.UpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newBindError() error {
	return errorx.New(errorx.BadRequest, "Cannot bind the request")
}

func newRequestContext(router *Router, w http.ResponseWriter, httpReq *http.Request) context.Context {
	ctx := httpReq.Context()
	ctx = xcontext.WithHTTPRequest(ctx, httpReq)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithDB(ctx, router.db)
	ctx = xcontext.WithConfigs(ctx, router.cfg)
	ctx = xcontext.WithLogger(ctx, router.logger)
	ctx = xcontext.WithTokenEngine(ctx, router.tokenEngine)
	ctx = xcontext.WithSessionStore(ctx, router.sessionStore)
	ctx = xcontext.WithStartTime(ctx, time.Now())
	return ctx
}

func withResponse(ctx context.Context, resp any) context.Context {
	return xcontext.WithResponse(ctx, resp)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) context.Context {
	ctx = xcontext.WithError(ctx, err)
	status, resp := newErrorResponse(err)
	if err := WriteJson(w, status, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}

	return ctx
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
