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
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18, 150.172.238.178"},
			remoteAddr: "127.0.0.1:8080",
			want:       "203.0.113.195",
		},
		{
			name:       "X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.195"},
			remoteAddr: "127.0.0.1:8080",
			want:       "203.0.113.195",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195", "X-Real-IP": "10.0.0.1"},
			remoteAddr: "127.0.0.1:8080",
			want:       "203.0.113.195",
		},
		{
			name:       "RemoteAddr with port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.1:12345",
			want:       "192.168.1.1",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
		{
			name:       "IPv6 RemoteAddr with port",
			headers:    map[string]string{},
			remoteAddr: "[::1]:8080",
			want:       "::1",
		},
		{
			name:       "IPv6 X-Forwarded-For",
			headers:    map[string]string{"X-Forwarded-For": "2001:db8::1"},
			remoteAddr: "127.0.0.1:8080",
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

			got := GetClientIP(req)
			if got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := t.Context()

	if ClientIP(ctx) != "" || UserAgent(ctx) != "" || CountryCode(ctx) != "" {
		t.Error("empty context should yield empty metadata")
	}
	if RequestID(ctx) != 0 {
		t.Error("empty context should yield zero request ID")
	}

	id := ksid.NewID()
	ctx = WithClientIP(ctx, "203.0.113.195")
	ctx = WithUserAgent(ctx, "mvn/3.9")
	ctx = WithCountryCode(ctx, "DE")
	ctx = WithRequestID(ctx, id)

	if got := ClientIP(ctx); got != "203.0.113.195" {
		t.Errorf("ClientIP() = %q", got)
	}
	if got := UserAgent(ctx); got != "mvn/3.9" {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := CountryCode(ctx); got != "DE" {
		t.Errorf("CountryCode() = %q", got)
	}
	if got := RequestID(ctx); got != id {
		t.Errorf("RequestID() = %v, want %v", got, id)
	}
}
