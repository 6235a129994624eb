package gavdb

// Artifact is one row of the gav table. Column names and order follow the
// upstream database build.
type Artifact struct {
	GroupID         string
	ArtifactID      string
	ArtifactVersion string
	FileName        string
	MajorVersion    int
	VersionSeq      int64
	LastModified    string
	Size            int64
	SHA1            string
	SignatureExists int
	SourcesExists   int
	JavadocExists   int
	Classifier      string
	FileExtension   string
	Packaging       string
	Name            string
}

// VersionUpdate is a newer version of an artifact: the distinct version
// string and the newest last-modified timestamp among its files.
type VersionUpdate struct {
	ArtifactVersion string
	LastModified    string
}

// Stats summarizes the database for the admin surface.
type Stats struct {
	ArtifactCount int64
	FileSizeBytes int64
}
