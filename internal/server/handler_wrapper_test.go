package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maruel/ksid"
	"github.com/maruel/userdb/internal/server/dto"
	"github.com/maruel/userdb/internal/server/reqctx"
)

func TestWriteJSONResponse_logsRequestMetadata(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	id := ksid.NewID()
	ctx := reqctx.WithRequestID(context.Background(), id)
	ctx = reqctx.WithUserAgent(ctx, "test-agent")
	ctx = reqctx.WithCountryCode(ctx, "RU")

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"refused", dto.NotFound("user"), http.StatusNotFound, "Request refused"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "Handler error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			w := httptest.NewRecorder()
			writeJSONResponse[struct{}](ctx, w, http.StatusOK, nil, tt.err)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			out := buf.String()
			for _, want := range []string{tt.msg, "id=" + id.String(), "ua=test-agent", "cc=RU"} {
				if !strings.Contains(out, want) {
					t.Errorf("log %q is missing %q", out, want)
				}
			}
		})
	}
}

func TestPopulateQueryParams(t *testing.T) {
	type request struct {
		City   string `query:"city"`
		Name   string `query:"name"`
		Limit  int    `query:"limit"`
		Ignore string
	}
	r := httptest.NewRequest(http.MethodGet, "/users?city=Kazan&limit=5&Ignore=x", http.NoBody)
	var req request
	populateQueryParams(r, &req)
	if req.City != "Kazan" || req.Name != "" || req.Ignore != "" {
		t.Errorf("got %+v", req)
	}
	// Only string fields are bound.
	if req.Limit != 0 {
		t.Errorf("Limit = %d, want 0", req.Limit)
	}
	// Non-pointer input is left alone.
	populateQueryParams(r, req)
}
