package reqctx

import (
	"net/http"
	"testing"

	"github.com/maruel/ksid"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "X-Forwarded-For single IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195"},
			remoteAddr: "127.0.0.1:8080",
			want:       "203.0.113.195",
		},
		{
			name:       "X-Forwarded-For multiple IPs",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"},
			remoteAddr: "127.0.0.1:8080",
			want:       "203.0.113.195",
		},
		{
			name:       "X-Real-IP",
			headers:    map[string]string{"X-Real-IP": " 203.0.113.7 "},
			remoteAddr: "127.0.0.1:8080",
			want:       "203.0.113.7",
		},
		{
			name:       "RemoteAddr with port",
			remoteAddr: "192.168.1.1:12345",
			want:       "192.168.1.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
		{
			name:       "IPv6 RemoteAddr with port",
			remoteAddr: "[::1]:8080",
			want:       "::1",
		},
		{
			name:       "bare IPv6 RemoteAddr",
			remoteAddr: "2001:db8::1",
			want:       "2001:db8::1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/", http.NoBody)
			if err != nil {
				t.Fatalf("Failed to create request: %v", err)
			}
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextValues(t *testing.T) {
	ctx := t.Context()
	if ClientIP(ctx) != "" || UserAgent(ctx) != "" || CountryCode(ctx) != "" || !RequestID(ctx).IsZero() {
		t.Fatal("expected empty values on a bare context")
	}
	id := ksid.NewID()
	ctx = WithClientIP(ctx, "203.0.113.1")
	ctx = WithUserAgent(ctx, "curl/8")
	ctx = WithCountryCode(ctx, "FR")
	ctx = WithRequestID(ctx, id)
	if got := ClientIP(ctx); got != "203.0.113.1" {
		t.Errorf("ClientIP() = %q", got)
	}
	if got := UserAgent(ctx); got != "curl/8" {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := CountryCode(ctx); got != "FR" {
		t.Errorf("CountryCode() = %q", got)
	}
	if got := RequestID(ctx); got != id {
		t.Errorf("RequestID() = %v, want %v", got, id)
	}
}
