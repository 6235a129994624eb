// Conversion between storage types and API DTOs.

package handlers

import (
	"github.com/mavendb/mavend/internal/gavdb"
	"github.com/mavendb/mavend/internal/server/dto"
)

func toArtifact(a *gavdb.Artifact) dto.Artifact {
	return dto.Artifact{
		GroupID:         a.GroupID,
		ArtifactID:      a.ArtifactID,
		ArtifactVersion: a.ArtifactVersion,
		FileName:        a.FileName,
		MajorVersion:    a.MajorVersion,
		VersionSeq:      a.VersionSeq,
		LastModified:    a.LastModified,
		Size:            a.Size,
		SHA1:            a.SHA1,
		SignatureExists: a.SignatureExists,
		SourcesExists:   a.SourcesExists,
		JavadocExists:   a.JavadocExists,
		Classifier:      a.Classifier,
		FileExtension:   a.FileExtension,
		Packaging:       a.Packaging,
		Name:            a.Name,
	}
}

func toArtifacts(items []gavdb.Artifact) []dto.Artifact {
	out := make([]dto.Artifact, 0, len(items))
	for i := range items {
		out = append(out, toArtifact(&items[i]))
	}
	return out
}

func toVersionUpdates(items []gavdb.VersionUpdate) []dto.VersionUpdate {
	out := make([]dto.VersionUpdate, 0, len(items))
	for _, u := range items {
		out = append(out, dto.VersionUpdate{
			ArtifactVersion: u.ArtifactVersion,
			LastModified:    u.LastModified,
		})
	}
	return out
}
