// Package handlers implements the HTTP endpoint handlers.
//
// Handlers follow the signature func(context.Context, *Req) (*Resp, error)
// and are adapted to http.Handler by the server package's Wrap functions.
package handlers

import (
	"time"

	"github.com/mavendb/mavend/internal/gavdb"
)

// Services groups the dependencies shared by handlers.
type Services struct {
	DB *gavdb.DB
}

// BuildInfo carries version information reported by health and admin
// endpoints.
type BuildInfo struct {
	Version   string
	GoVersion string
	Revision  string
	StartTime time.Time
}
