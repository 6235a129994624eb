// Implements the public artifact lookup endpoints.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mavendb/mavend/internal/gavdb"
	"github.com/mavendb/mavend/internal/server/dto"
)

// ArtifactHandler serves lookups against the gav table.
type ArtifactHandler struct {
	db *gavdb.DB
}

// NewArtifactHandler creates a new artifact handler.
func NewArtifactHandler(db *gavdb.DB) *ArtifactHandler {
	return &ArtifactHandler{db: db}
}

// Root serves the root status endpoint.
func (h *ArtifactHandler) Root(ctx context.Context, _ *dto.RootRequest) (*dto.MessageResponse, error) {
	return &dto.MessageResponse{Message: "Server is up and running.."}, nil
}

// APIRoot serves the API root status endpoint.
func (h *ArtifactHandler) APIRoot(ctx context.Context, _ *dto.RootRequest) (*dto.MessageResponse, error) {
	return &dto.MessageResponse{Message: "API Server is up and running.."}, nil
}

// GetFile returns the artifact with the exact repository file name.
func (h *ArtifactHandler) GetFile(ctx context.Context, req *dto.GetFileRequest) (*dto.Artifact, error) {
	a, err := h.db.GetByFileName(ctx, req.FileName)
	if err != nil {
		return nil, mapDBError(err, "File "+req.FileName)
	}
	item := toArtifact(a)
	return &item, nil
}

// FileLastModified returns the newest last-modified timestamp among files
// sharing the request's name stem (extension stripped, prefix match).
func (h *ArtifactHandler) FileLastModified(ctx context.Context, req *dto.FileLastModifiedRequest) (*dto.LastModifiedResponse, error) {
	stem := stemOf(req.FileName)
	if stem == "" {
		return nil, dto.BadRequest("File name is too short: " + req.FileName)
	}
	lm, err := h.db.LastModified(ctx, stem)
	if err != nil {
		return nil, mapDBError(err, "File "+req.FileName)
	}
	return &dto.LastModifiedResponse{LastModified: lm}, nil
}

// List returns a page of the gav table.
func (h *ArtifactHandler) List(ctx context.Context, req *dto.ListArtifactsRequest) (*[]dto.Artifact, error) {
	items, err := h.db.List(ctx, req.EffectiveLimit(), req.Skip)
	if err != nil {
		return nil, mapDBError(err, "")
	}
	if len(items) == 0 {
		return nil, dto.NewAPIError(http.StatusNotFound, dto.ErrorCodeNotFound, "No items found")
	}
	out := toArtifacts(items)
	return &out, nil
}

// GetGAV returns all artifacts of a GAV triple.
func (h *ArtifactHandler) GetGAV(ctx context.Context, req *dto.GetGAVRequest) (*[]dto.Artifact, error) {
	items, err := h.db.GetByGAV(ctx, req.GroupID, req.ArtifactID, req.ArtifactVersion, dto.PageSize)
	if err != nil {
		return nil, mapDBError(err, "GAV "+gavString(req.GroupID, req.ArtifactID, req.ArtifactVersion))
	}
	if len(items) == 0 {
		return nil, dto.NotFound("GAV " + gavString(req.GroupID, req.ArtifactID, req.ArtifactVersion))
	}
	out := toArtifacts(items)
	return &out, nil
}

// FileUpgrade returns versions newer than the given file's artifact.
// A nil response with nil error yields 204 No Content.
func (h *ArtifactHandler) FileUpgrade(ctx context.Context, req *dto.FileUpgradeRequest) (*[]dto.VersionUpdate, error) {
	a, err := h.db.GetByFileName(ctx, req.FileName)
	if err != nil {
		return nil, mapDBError(err, "File "+req.FileName)
	}
	return h.upgrades(ctx, a, req.EffectiveLimit())
}

// GAVUpgrade returns versions newer than the given GAV triple.
// A nil response with nil error yields 204 No Content.
func (h *ArtifactHandler) GAVUpgrade(ctx context.Context, req *dto.GAVUpgradeRequest) (*[]dto.VersionUpdate, error) {
	items, err := h.db.GetByGAV(ctx, req.GroupID, req.ArtifactID, req.ArtifactVersion, 1)
	if err != nil {
		return nil, mapDBError(err, "GAV "+gavString(req.GroupID, req.ArtifactID, req.ArtifactVersion))
	}
	if len(items) == 0 {
		return nil, dto.NotFound("GAV " + gavString(req.GroupID, req.ArtifactID, req.ArtifactVersion))
	}
	return h.upgrades(ctx, &items[0], req.EffectiveLimit())
}

func (h *ArtifactHandler) upgrades(ctx context.Context, a *gavdb.Artifact, limit int) (*[]dto.VersionUpdate, error) {
	updates, err := h.db.Upgrades(ctx, a.GroupID, a.ArtifactID, a.VersionSeq, limit)
	if err != nil {
		return nil, mapDBError(err, "")
	}
	if len(updates) == 0 {
		// Known artifact, nothing newer: 204.
		return nil, nil
	}
	out := toVersionUpdates(updates)
	return &out, nil
}

// mapDBError translates storage errors to API errors. resource names the
// thing looked up for 404 messages; empty means a not-found is unexpected.
func mapDBError(err error, resource string) error {
	switch {
	case errors.Is(err, gavdb.ErrUnavailable):
		return dto.DBUnavailable()
	case errors.Is(err, gavdb.ErrNotFound):
		if resource == "" {
			return dto.InternalWithError("unexpected missing row", err)
		}
		return dto.NotFound(resource)
	default:
		return dto.InternalWithError("query failed", err)
	}
}

// stemOf strips the file extension the way os.path.splitext does: the
// extension starts at the last dot, unless that dot is the first character.
func stemOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name
	}
	return name[:i]
}

func gavString(groupID, artifactID, artifactVersion string) string {
	return groupID + "/" + artifactID + "/" + artifactVersion
}
