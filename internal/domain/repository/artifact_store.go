// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"errors"

	"fitsync/internal/domain/entity"
)

// ErrArtifactNotFound is returned when no artifact exists for the requested
// (participant, date, resource, granularity) tuple under any known name.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactKind distinguishes the persisted variants of a resource's data
// for one day.
type ArtifactKind string

const (
	// ArtifactSummary is the daily summary response.
	ArtifactSummary ArtifactKind = "summary"
	// ArtifactIntraday is the fine-grained intraday series response.
	ArtifactIntraday ArtifactKind = "intraday"
	// ArtifactSingle is the sole response of resources without a
	// summary/intraday split (sleep, weight).
	ArtifactSingle ArtifactKind = "single"
)

// ArtifactKey identifies one persisted raw response. Keys are
// content-addressing: writing the same key twice overwrites deterministically.
type ArtifactKey struct {
	ParticipantID string
	Date          string // ISO date, empty for the per-participant profile artifact
	Resource      entity.Resource
	Kind          ArtifactKind
	Granularity   entity.Granularity // set only for ArtifactIntraday
}

// ArtifactStore is the durable record of what has been fetched. The sync
// engine writes raw provider responses through it and the export reducer
// reads them back; the two sides share no other state.
type ArtifactStore interface {
	// Write persists raw JSON for the key, atomically replacing any
	// previous content.
	Write(key ArtifactKey, raw []byte) error

	// WriteError persists an error marker for a failed intraday
	// sub-resource fetch so the failure itself is visible on disk.
	WriteError(key ArtifactKey, message string) error

	// WriteProfile persists the participant's profile response; the
	// profile is not date-dependent.
	WriteProfile(participantID string, raw []byte) error

	// Read returns the raw JSON for the key, trying the current naming
	// scheme first and then the legacy names in order. Returns
	// ErrArtifactNotFound when no candidate exists.
	Read(key ArtifactKey) ([]byte, error)

	// ReadProfile returns the participant's stored profile response.
	ReadProfile(participantID string) ([]byte, error)

	// ExportPath resolves <data_root>/exports/<name>, creating the
	// exports directory as needed, and returns the full path for the
	// reducer to write to.
	ExportPath(name string) (string, error)
}
