package dto

// Parameter bounds for the gav table, matching the column widths of the
// upstream database build.
const (
	MaxLenGroupID         = 254
	MaxLenArtifactID      = 254
	MaxLenArtifactVersion = 128
	MaxLenFileName        = 512
)

// Page size caps. Listing endpoints return at most PageSize rows; upgrade
// queries return at most PageSizeBig rows.
const (
	PageSize    = 100
	PageSizeBig = 1000
)

// --- Status ---

// RootRequest is a request to the root status endpoint.
type RootRequest struct{}

// Validate is a no-op for RootRequest.
func (r *RootRequest) Validate() error {
	return nil
}

// HealthRequest is a request to the health endpoint.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}

// --- Artifacts ---

// GetFileRequest is a request to look up an artifact by exact file name.
type GetFileRequest struct {
	FileName string `path:"file_name"`
}

// Validate validates the file lookup request fields.
func (r *GetFileRequest) Validate() error {
	if r.FileName == "" {
		return MissingField("file_name")
	}
	if len(r.FileName) > MaxLenFileName {
		return TooLong("file_name", MaxLenFileName)
	}
	return nil
}

// FileLastModifiedRequest is a request for the newest last-modified
// timestamp among files sharing the given file's name stem.
type FileLastModifiedRequest struct {
	FileName string `path:"file_name"`
}

// Validate validates the last-modified request fields.
func (r *FileLastModifiedRequest) Validate() error {
	if r.FileName == "" {
		return MissingField("file_name")
	}
	if len(r.FileName) > MaxLenFileName {
		return TooLong("file_name", MaxLenFileName)
	}
	return nil
}

// ListArtifactsRequest is a request for a page of the gav table.
// Limit is a pointer so an explicit limit=0 (an empty window) can be told
// apart from the parameter being absent.
type ListArtifactsRequest struct {
	Skip  int  `query:"skip"`
	Limit *int `query:"limit"`
}

// Validate validates pagination bounds.
func (r *ListArtifactsRequest) Validate() error {
	if r.Skip < 0 {
		return BadRequest("skip must not be negative")
	}
	if r.Limit != nil {
		if *r.Limit < 0 {
			return BadRequest("limit must not be negative")
		}
		if *r.Limit > PageSize {
			return TooLong("limit", PageSize)
		}
	}
	return nil
}

// EffectiveLimit returns the limit to use, defaulting to PageSize when the
// parameter is absent. An explicit 0 is passed through.
func (r *ListArtifactsRequest) EffectiveLimit() int {
	if r.Limit == nil {
		return PageSize
	}
	return *r.Limit
}

// GetGAVRequest is a request for all artifacts of a GAV triple.
type GetGAVRequest struct {
	GroupID         string `path:"group_id"`
	ArtifactID      string `path:"artifact_id"`
	ArtifactVersion string `path:"artifact_version"`
}

// Validate validates the GAV path components.
func (r *GetGAVRequest) Validate() error {
	return validateGAV(r.GroupID, r.ArtifactID, r.ArtifactVersion)
}

// FileUpgradeRequest is a request for newer versions of a file's artifact.
type FileUpgradeRequest struct {
	FileName string `path:"file_name"`
	Limit    *int   `query:"limit"`
}

// Validate validates the file upgrade request fields.
func (r *FileUpgradeRequest) Validate() error {
	if r.FileName == "" {
		return MissingField("file_name")
	}
	if len(r.FileName) > MaxLenFileName {
		return TooLong("file_name", MaxLenFileName)
	}
	return validateUpgradeLimit(r.Limit)
}

// EffectiveLimit returns the limit to use, defaulting to PageSizeBig when
// the parameter is absent. An explicit 0 is passed through.
func (r *FileUpgradeRequest) EffectiveLimit() int {
	if r.Limit == nil {
		return PageSizeBig
	}
	return *r.Limit
}

// GAVUpgradeRequest is a request for newer versions of a GAV triple.
type GAVUpgradeRequest struct {
	GroupID         string `path:"group_id"`
	ArtifactID      string `path:"artifact_id"`
	ArtifactVersion string `path:"artifact_version"`
	Limit           *int   `query:"limit"`
}

// Validate validates the GAV upgrade request fields.
func (r *GAVUpgradeRequest) Validate() error {
	if err := validateGAV(r.GroupID, r.ArtifactID, r.ArtifactVersion); err != nil {
		return err
	}
	return validateUpgradeLimit(r.Limit)
}

// EffectiveLimit returns the limit to use, defaulting to PageSizeBig when
// the parameter is absent. An explicit 0 is passed through.
func (r *GAVUpgradeRequest) EffectiveLimit() int {
	if r.Limit == nil {
		return PageSizeBig
	}
	return *r.Limit
}

// --- Admin ---

// AdminStatsRequest is a request for server and database statistics.
type AdminStatsRequest struct{}

// Validate is a no-op for AdminStatsRequest.
func (r *AdminStatsRequest) Validate() error {
	return nil
}

func validateGAV(groupID, artifactID, artifactVersion string) error {
	if groupID == "" {
		return MissingField("group_id")
	}
	if artifactID == "" {
		return MissingField("artifact_id")
	}
	if artifactVersion == "" {
		return MissingField("artifact_version")
	}
	if len(groupID) > MaxLenGroupID {
		return TooLong("group_id", MaxLenGroupID)
	}
	if len(artifactID) > MaxLenArtifactID {
		return TooLong("artifact_id", MaxLenArtifactID)
	}
	if len(artifactVersion) > MaxLenArtifactVersion {
		return TooLong("artifact_version", MaxLenArtifactVersion)
	}
	return nil
}

func validateUpgradeLimit(limit *int) error {
	if limit == nil {
		return nil
	}
	if *limit < 0 {
		return BadRequest("limit must not be negative")
	}
	if *limit > PageSizeBig {
		return TooLong("limit", PageSizeBig)
	}
	return nil
}
