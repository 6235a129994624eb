package dto

// --- Status responses ---

// MessageResponse is a simple status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports server liveness and build version.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// --- Artifact responses ---

// Artifact is one row of the gav table as served on the wire. Field order
// and names match the upstream database build.
type Artifact struct {
	GroupID         string `json:"group_id" jsonschema:"description=Maven group identifier"`
	ArtifactID      string `json:"artifact_id" jsonschema:"description=Maven artifact identifier"`
	ArtifactVersion string `json:"artifact_version" jsonschema:"description=Artifact version string"`
	FileName        string `json:"file_name" jsonschema:"description=Repository file name"`
	MajorVersion    int    `json:"major_version"`
	VersionSeq      int64  `json:"version_seq" jsonschema:"description=Monotonic ordering key for versions of the same artifact"`
	LastModified    string `json:"last_modified" jsonschema:"description=Upstream last-modified timestamp"`
	Size            int64  `json:"size" jsonschema:"description=File size in bytes"`
	SHA1            string `json:"sha1"`
	SignatureExists int    `json:"signature_exists"`
	SourcesExists   int    `json:"sources_exists"`
	JavadocExists   int    `json:"javadoc_exists"`
	Classifier      string `json:"classifier"`
	FileExtension   string `json:"file_extension"`
	Packaging       string `json:"packaging"`
	Name            string `json:"name"`
}

// LastModifiedResponse carries the newest last-modified timestamp for a
// file name stem.
type LastModifiedResponse struct {
	LastModified string `json:"last_modified"`
}

// VersionUpdate is one newer version of an artifact.
type VersionUpdate struct {
	ArtifactVersion string `json:"artifact_version"`
	LastModified    string `json:"last_modified"`
}

// --- Admin responses ---

// AdminStatsResponse reports database and process statistics.
type AdminStatsResponse struct {
	DBPath        string `json:"db_path"`
	DBSizeBytes   int64  `json:"db_size_bytes"`
	ArtifactCount int64  `json:"artifact_count"`
	DBAvailable   bool   `json:"db_available"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Version       string `json:"version"`
	GoVersion     string `json:"go_version"`
	Revision      string `json:"revision"`
}
