// Provides middleware for standardizing HTTP handlers.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/maruel/userdb/internal/history"
	"github.com/maruel/userdb/internal/server/dto"
	"github.com/maruel/userdb/internal/server/handlers"
	"github.com/maruel/userdb/internal/server/ratelimit"
	"github.com/maruel/userdb/internal/server/reqctx"
)

// Deps holds what Wrap needs besides the handler itself.
type Deps struct {
	Config  *handlers.Config
	Tiers   *ratelimit.Tiers
	History *history.Repo // may be nil
	// Tracked lists the data files committed after each mutating request.
	Tracked []string
}

// isMutating returns true for HTTP methods that modify state.
func isMutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch || method == http.MethodDelete
}

// commitIfMutating records the tracked data files after a mutating request.
//
// It always attempts the commit regardless of handler outcome: if the handler
// wrote data before returning an error, the change is already on disk and must
// be tracked. When no file changed, Commit is a no-op.
func commitIfMutating(ctx context.Context, r *http.Request, d *Deps) {
	if d == nil || d.History == nil || !isMutating(r.Method) {
		return
	}
	msg := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
	if err := d.History.Commit(ctx, msg, d.Tracked...); err != nil {
		slog.ErrorContext(ctx, "Failed to commit data changes", "err", err)
	}
}

// checkRateLimit checks rate limit and wraps the response writer if needed.
// Returns the (possibly wrapped) writer and whether the request should proceed.
func checkRateLimit(w http.ResponseWriter, tier *ratelimit.Tier, identifier string) (http.ResponseWriter, bool) {
	if tier == nil {
		return w, true
	}
	key := ratelimit.BuildKey(identifier, tier.Name)
	result := tier.Limiter.Allow(key)
	w = ratelimit.NewResponseWriter(w, result)
	if !result.Allowed {
		writeRateLimitError(w, result)
		return w, false
	}
	return w, true
}

// readAndDecodeBody reads the request body with size limit and decodes JSON into input.
// Returns false if an error occurred and was written to the response.
func readAndDecodeBody[In any](ctx context.Context, w http.ResponseWriter, r *http.Request, input *In, cfg *handlers.Config) bool {
	if cfg != nil && cfg.MaxRequestBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxRequestBodyBytes)
	}

	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, dto.PayloadTooLarge(maxBytesErr.Limit))
			return false
		}
		slog.ErrorContext(ctx, "Failed to read request body", "err", err)
		writeError(w, dto.BadRequest("Failed to read request body"))
		return false
	}

	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(input); err != nil {
			slog.WarnContext(ctx, "Failed to decode request body", "err", err)
			writeError(w, dto.BadRequest("Invalid request body"))
			return false
		}
	}
	return true
}

// writeJSONResponse writes a JSON response with status, or an error response.
func writeJSONResponse[Out any](ctx context.Context, w http.ResponseWriter, status int, output *Out, err error) {
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := dto.ErrorCodeInternal
		var ewsErr dto.ErrorWithStatus
		if errors.As(err, &ewsErr) {
			statusCode = ewsErr.StatusCode()
			errorCode = ewsErr.Code()
		}
		if statusCode >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Handler error", "err", err, "statusCode", statusCode, "code", errorCode,
				"id", reqctx.RequestID(ctx), "ua", reqctx.UserAgent(ctx), "cc", reqctx.CountryCode(ctx))
		} else {
			slog.InfoContext(ctx, "Request refused", "err", err, "statusCode", statusCode, "code", errorCode,
				"id", reqctx.RequestID(ctx), "ua", reqctx.UserAgent(ctx), "cc", reqctx.CountryCode(ctx))
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(output); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "err", err)
	}
}

// Wrap wraps a handler function to work as an http.Handler.
// The function must have signature: func(context.Context, *In) (*Out, error)
// *In must implement dto.Validatable.
//
// Path and query parameters are copied into fields tagged `path:"name"` and
// `query:"name"` before Validate is called. status is written on success.
//
// Example:
//
//	type GetUserRequest struct {
//	    ID string `path:"id"`
//	}
//
//	func (h *Handler) GetUser(ctx context.Context, req *GetUserRequest) (*Response, error)
func Wrap[In any, PtrIn interface {
	*In
	dto.Validatable
}, Out any](fn func(context.Context, PtrIn) (*Out, error), status int, d *Deps) http.Handler {
	var cfg *handlers.Config
	var tiers *ratelimit.Tiers
	if d != nil {
		cfg = d.Config
		tiers = d.Tiers
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var ok bool
		if tier := tiers.Match(r.Method, r.URL.Path); tier != nil {
			w, ok = checkRateLimit(w, tier, reqctx.ClientIP(ctx))
			if !ok {
				return
			}
		}

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input, cfg) {
			return
		}

		populatePathParams(r, input)
		populateQueryParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			handleValidationError(ctx, w, err)
			return
		}

		output, err := fn(ctx, PtrIn(input))
		commitIfMutating(ctx, r, d)
		writeJSONResponse(ctx, w, status, output, err)
	})
}

// WrapRaw applies rate limiting to a raw http.HandlerFunc.
func WrapRaw(fn http.HandlerFunc, d *Deps) http.Handler {
	var tiers *ratelimit.Tiers
	if d != nil {
		tiers = d.Tiers
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		if tier := tiers.Match(r.Method, r.URL.Path); tier != nil {
			if w, ok = checkRateLimit(w, tier, reqctx.ClientIP(r.Context())); !ok {
				return
			}
		}
		fn(w, r)
	})
}

// populatePathParams extracts path parameters from the request and populates
// struct fields tagged with `path:"paramName"`.
func populatePathParams(r *http.Request, input any) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}

	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("path")
		if tag == "" {
			continue
		}
		paramValue := r.PathValue(tag)
		if paramValue == "" {
			continue
		}
		if field.Type.Kind() == reflect.String {
			elem.Field(i).SetString(paramValue)
		}
	}
}

// populateQueryParams extracts query parameters from the request and populates
// struct fields tagged with `query:"paramName"`.
func populateQueryParams(r *http.Request, input any) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}

	query := r.URL.Query()
	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("query")
		if tag == "" {
			continue
		}
		paramValue := query.Get(tag)
		if paramValue == "" {
			continue
		}

		// Query-bound fields are strings; handlers parse and validate them.
		if field.Type.Kind() == reflect.String {
			elem.Field(i).SetString(paramValue)
		}
	}
}

// handleValidationError handles a validation error from a request's Validate method.
func handleValidationError(ctx context.Context, w http.ResponseWriter, err error) {
	var ewsErr dto.ErrorWithStatus
	if !errors.As(err, &ewsErr) {
		err = dto.BadRequest(err.Error())
	}
	slog.InfoContext(ctx, "Validation error", "err", err)
	writeError(w, err)
}

// writeError writes err as a JSON error body. Errors that are not a
// dto.ErrorWithStatus become a generic 500 so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	response := dto.ErrorResponse{Error: "Internal error", Code: dto.ErrorCodeInternal}
	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		response = dto.ErrorResponse{Error: ewsErr.Message(), Code: ewsErr.Code(), Details: ewsErr.Details()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "err", err)
	}
}

// writeRateLimitError writes a 429 rate limit error response.
func writeRateLimitError(w http.ResponseWriter, result ratelimit.Result) {
	writeError(w, dto.RateLimitExceeded(int(result.RetryAfter.Seconds())))
}
