// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"strings"
	"time"
)

// Tier defines a rate limit tier. All tiers are keyed by client IP: the
// public API has no user accounts.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds rate limiters for the different endpoint classes.
type Config struct {
	// Read covers the public artifact lookup endpoints.
	Read Tier
	// Upgrade covers the heavier fileupgrade/gavupgrade queries.
	Upgrade Tier
	// Admin covers the authenticated admin endpoints.
	Admin Tier
}

// Limits are the configurable per-minute rates. Zero values fall back to
// defaults.
type Limits struct {
	ReadPerMin    int `yaml:"read_per_min"`
	UpgradePerMin int `yaml:"upgrade_per_min"`
	AdminPerMin   int `yaml:"admin_per_min"`
}

// Default per-minute rates. The read tier is generous: this is a public
// lookup API and legitimate CI systems poll it in bursts.
const (
	DefaultReadPerMin    = 6000
	DefaultUpgradePerMin = 600
	DefaultAdminPerMin   = 60
)

// NewConfig creates a Config from the given limits, using defaults for
// zero values.
func NewConfig(l Limits) *Config {
	read := l.ReadPerMin
	if read == 0 {
		read = DefaultReadPerMin
	}
	upgrade := l.UpgradePerMin
	if upgrade == 0 {
		upgrade = DefaultUpgradePerMin
	}
	admin := l.AdminPerMin
	if admin == 0 {
		admin = DefaultAdminPerMin
	}
	return &Config{
		Read: Tier{
			Name:    "read",
			Limiter: NewLimiter(read, time.Minute, read/6+1),
		},
		Upgrade: Tier{
			Name:    "upgrade",
			Limiter: NewLimiter(upgrade, time.Minute, upgrade/6+1),
		},
		Admin: Tier{
			Name:    "admin",
			Limiter: NewLimiter(admin, time.Minute, admin/6+1),
		},
	}
}

// Close releases all tier limiters.
func (c *Config) Close() {
	c.Read.Limiter.Close()
	c.Upgrade.Limiter.Close()
	c.Admin.Limiter.Close()
}

// Match returns the tier for the given request path, or nil for paths that
// should not be rate limited (health checks and the docs surface).
func (c *Config) Match(path string) *Tier {
	switch {
	case path == "/api/health" || path == "/docs" || strings.HasPrefix(path, "/docs/"):
		return nil
	case strings.HasPrefix(path, "/api/admin/"):
		return &c.Admin
	case strings.HasPrefix(path, "/api/fileupgrade/") || strings.HasPrefix(path, "/api/gavupgrade/"):
		return &c.Upgrade
	default:
		return &c.Read
	}
}

// BuildKey creates a rate limit bucket key from the client IP and tier name.
func BuildKey(ip, tierName string) string {
	return "ip:" + ip + ":" + tierName
}
