package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig(Limits{})
	defer c.Close()

	if c.Read.Name != "read" || c.Upgrade.Name != "upgrade" || c.Admin.Name != "admin" {
		t.Errorf("unexpected tier names: %q %q %q", c.Read.Name, c.Upgrade.Name, c.Admin.Name)
	}
	if got := c.Read.Limiter.Allow("k").Limit; got != DefaultReadPerMin {
		t.Errorf("read limit = %d, want %d", got, DefaultReadPerMin)
	}
	if got := c.Admin.Limiter.Allow("k").Limit; got != DefaultAdminPerMin {
		t.Errorf("admin limit = %d, want %d", got, DefaultAdminPerMin)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	c := NewConfig(Limits{ReadPerMin: 120, UpgradePerMin: 30, AdminPerMin: 10})
	defer c.Close()

	if got := c.Read.Limiter.Allow("k").Limit; got != 120 {
		t.Errorf("read limit = %d, want 120", got)
	}
	if got := c.Upgrade.Limiter.Allow("k").Limit; got != 30 {
		t.Errorf("upgrade limit = %d, want 30", got)
	}
	if got := c.Admin.Limiter.Allow("k").Limit; got != 10 {
		t.Errorf("admin limit = %d, want 10", got)
	}
}

func TestConfig_Match(t *testing.T) {
	c := NewConfig(Limits{})
	defer c.Close()

	tests := []struct {
		path string
		want string // tier name, empty for exempt
	}{
		{"/", "read"},
		{"/api/", "read"},
		{"/api/file/guava-30.0.jar", "read"},
		{"/api/filelastmodified/guava-30.0.jar", "read"},
		{"/api/gav", "read"},
		{"/api/gav/com.google.guava/guava/30.0", "read"},
		{"/api/fileupgrade/guava-30.0.jar", "upgrade"},
		{"/api/gavupgrade/com.google.guava/guava/30.0", "upgrade"},
		{"/api/admin/stats", "admin"},
		{"/api/health", ""},
		{"/docs", ""},
		{"/docs/openapi.yaml", ""},
		{"/docs/schema.json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			tier := c.Match(tt.path)
			if tt.want == "" {
				if tier != nil {
					t.Errorf("Match(%q) = %q, want exempt", tt.path, tier.Name)
				}
				return
			}
			if tier == nil {
				t.Fatalf("Match(%q) = nil, want %q", tt.path, tt.want)
			}
			if tier.Name != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.path, tier.Name, tt.want)
			}
		})
	}
}

func TestBuildKey(t *testing.T) {
	if got := BuildKey("203.0.113.195", "read"); got != "ip:203.0.113.195:read" {
		t.Errorf("BuildKey() = %q", got)
	}
}

func TestResponseWriter_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	result := Result{
		Allowed:   true,
		Limit:     6000,
		Remaining: 5999,
		ResetAt:   time.Now().Add(time.Minute),
	}
	w := NewResponseWriter(rec, result)
	w.WriteHeader(200)

	if got := rec.Header().Get("X-RateLimit-Limit"); got != "6000" {
		t.Errorf("X-RateLimit-Limit = %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "5999" {
		t.Errorf("X-RateLimit-Remaining = %q", got)
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("X-RateLimit-Reset missing")
	}
	if rec.Header().Get("Retry-After") != "" {
		t.Error("Retry-After should only be set when throttled")
	}
}

func TestResponseWriter_RetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	result := Result{
		Allowed:    false,
		Limit:      60,
		Remaining:  0,
		ResetAt:    time.Now().Add(time.Minute),
		RetryAfter: 2 * time.Second,
	}
	w := NewResponseWriter(rec, result)
	if _, err := w.Write([]byte("{}")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want \"2\"", got)
	}
}
