// Implements the token-gated admin endpoints.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mavendb/mavend/internal/gavdb"
	"github.com/mavendb/mavend/internal/server/dto"
)

// AdminHandler serves server and database statistics.
type AdminHandler struct {
	db    *gavdb.DB
	build BuildInfo
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *gavdb.DB, build BuildInfo) *AdminHandler {
	return &AdminHandler{db: db, build: build}
}

// Stats reports database and process statistics. The database being in
// maintenance is reported, not an error: the admin surface is how an
// operator checks on a maintenance window.
func (h *AdminHandler) Stats(ctx context.Context, _ *dto.AdminStatsRequest) (*dto.AdminStatsResponse, error) {
	resp := &dto.AdminStatsResponse{
		DBPath:        h.db.Path(),
		DBAvailable:   h.db.Available(),
		UptimeSeconds: int64(time.Since(h.build.StartTime).Seconds()),
		Version:       h.build.Version,
		GoVersion:     h.build.GoVersion,
		Revision:      h.build.Revision,
	}
	stats, err := h.db.Stats(ctx)
	if err != nil {
		if errors.Is(err, gavdb.ErrUnavailable) {
			return resp, nil
		}
		return nil, dto.InternalWithError("stats query failed", err)
	}
	resp.ArtifactCount = stats.ArtifactCount
	resp.DBSizeBytes = stats.FileSizeBytes
	return resp, nil
}

// IssueAdminToken mints an HMAC-signed bearer token for the admin
// endpoints. Used by the -issue-admin-token CLI flag.
func IssueAdminToken(secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ValidateAdminToken verifies an admin bearer token.
func ValidateAdminToken(ctx context.Context, tokenString string, secret []byte) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		slog.WarnContext(ctx, "Rejected admin token", "err", err)
		return dto.Unauthorized()
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return dto.Unauthorized()
	}
	if sub, _ := claims["sub"].(string); sub != "admin" {
		return dto.Unauthorized()
	}
	return nil
}
