// Package respond renders every error of the service as an api.ErrorBody and logs it.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/repo-summary/internal/api"
	applog "github.com/janisto/repo-summary/internal/platform/logging"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeCBOR = "application/cbor"

	msgNotFound         = "resource not found"
	msgMethodNotAllowed = "method not allowed"
	msgInternal         = "internal server error"
)

var installOnce sync.Once

// Install replaces Huma's default problem-details errors so that validation and framework
// failures share the api.ErrorBody shape.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return Error(context.Background(), status, "", withDetails(msg, errs), errs...)
		}
		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			ctx := context.Background()
			path := ""
			if hctx != nil {
				ctx = hctx.Context()
				u := hctx.URL()
				path = u.Path
			}
			return Error(ctx, status, path, withDetails(msg, errs), errs...)
		}
	})
}

// Error builds a status error for path and logs it at a severity matching the status.
// errs are logged but never rendered.
func Error(ctx context.Context, status int, path, msg string, errs ...error) huma.StatusError {
	body := api.NewErrorBody(status, path, msg)
	logWithStatus(ctx, body, joinErrors(errs))
	return body
}

// Write renders body as CBOR when the client asks for it and as JSON otherwise.
func Write(w http.ResponseWriter, r *http.Request, body *api.ErrorBody) error {
	if acceptsCBOR(r) {
		data, err := cbor.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding cbor error body: %w", err)
		}
		w.Header().Set("Content-Type", contentTypeCBOR)
		w.WriteHeader(body.Code)
		_, err = w.Write(data)
		return err
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(body.Code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(body)
}

// WriteError logs and renders an error response directly on w.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, errs ...error) {
	body := api.NewErrorBody(status, r.URL.Path, msg)
	logWithStatus(r.Context(), body, joinErrors(errs))
	if err := Write(w, r, body); err != nil {
		applog.LogError(r.Context(), "failed to render error response", err)
	}
}

// NotFoundHandler renders unmatched routes.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, msgNotFound)
	}
}

// MethodNotAllowedHandler renders 405 responses with an Allow header built from chi's routes.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		WriteError(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

// Recoverer converts panics into 500 responses. http.ErrAbortHandler is re-panicked so the
// server can abort the connection.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				WriteError(w, r, http.StatusInternalServerError, msgInternal, fmt.Errorf("%w\n%s", err, debug.Stack()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.Path
	}
	if routePath == "" {
		routePath = "/"
	}

	var allowed []string
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func acceptsCBOR(r *http.Request) bool {
	if r == nil {
		return false
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(mediaType), contentTypeCBOR) {
			return true
		}
	}
	return false
}

// withDetails appends validation details reported by Huma to msg.
func withDetails(msg string, errs []error) string {
	var details []string
	for _, err := range errs {
		if err == nil {
			continue
		}
		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			if d := detailer.ErrorDetail(); d != nil {
				if d.Location != "" {
					details = append(details, d.Location+": "+d.Message)
				} else {
					details = append(details, d.Message)
				}
				continue
			}
		}
		details = append(details, err.Error())
	}
	if len(details) == 0 {
		return msg
	}
	if msg == "" {
		return strings.Join(details, "; ")
	}
	return msg + ": " + strings.Join(details, "; ")
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

func logWithStatus(ctx context.Context, body *api.ErrorBody, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	fields := []zap.Field{
		zap.Int("status", body.Code),
		zap.String("path", body.Path),
	}
	if body.Code >= http.StatusInternalServerError {
		applog.LogError(ctx, body.Message, err, fields...)
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if body.Code >= http.StatusBadRequest {
		applog.LogWarn(ctx, body.Message, fields...)
		return
	}
	// Huma builds a zero-status error per registered operation to derive its schema.
	applog.LogDebug(ctx, body.Message, fields...)
}
