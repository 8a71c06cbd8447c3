// Package artifact implements the filesystem-backed artifact store. The
// directory of raw per-day JSON responses is the durable record of what has
// been fetched for each participant; the sync engine writes it and the
// export reducer reads it, with no shared state besides these files.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"fitsync/config"
	"fitsync/internal/domain/repository"

	"github.com/pkg/errors"
)

const profileFileName = "user_profile.json"

// store implements repository.ArtifactStore on a local directory tree:
// <data_root>/<participant_id>/<artifact files> plus <data_root>/exports.
type store struct {
	root string
}

// NewStore creates the artifact store rooted at the configured data directory.
func NewStore(cfg *config.Config) repository.ArtifactStore {
	return &store{root: cfg.Sync.DataDir}
}

// NewStoreAt creates an artifact store rooted at an explicit directory.
func NewStoreAt(root string) repository.ArtifactStore {
	return &store{root: root}
}

// fileName renders the canonical file name for a key.
func fileName(key repository.ArtifactKey) string {
	switch key.Kind {
	case repository.ArtifactSummary:
		return fmt.Sprintf("%s_%s_summary.json", key.Date, key.Resource)
	case repository.ArtifactIntraday:
		return fmt.Sprintf("%s_%s_intraday_%s.json", key.Date, key.Resource, key.Granularity)
	default:
		return fmt.Sprintf("%s_%s.json", key.Date, key.Resource)
	}
}

// legacyFileNames lists older naming schemes for a key, in the order they
// should be tried when the canonical name is missing. Earlier versions of
// this system wrote "<date>_steps.json" for the steps summary and
// "<date>_heartrate_<granularity>.json" for the heart-rate intraday series.
func legacyFileNames(key repository.ArtifactKey) []string {
	switch key.Kind {
	case repository.ArtifactSummary:
		return []string{fmt.Sprintf("%s_%s.json", key.Date, key.Resource)}
	case repository.ArtifactIntraday:
		return []string{fmt.Sprintf("%s_%s_%s.json", key.Date, key.Resource, key.Granularity)}
	default:
		return nil
	}
}

func (s *store) participantDir(participantID string) string {
	return filepath.Join(s.root, participantID)
}

// Write persists raw JSON for the key, atomically replacing any previous
// content. The write-to-temp-then-rename keeps re-syncs idempotent and
// concurrent writers last-writer-wins per file.
func (s *store) Write(key repository.ArtifactKey, raw []byte) error {
	return s.writeFile(key.ParticipantID, fileName(key), raw)
}

// WriteError persists an error marker for a failed intraday sub-resource
// fetch so the failure itself is visible on disk next to the data.
func (s *store) WriteError(key repository.ArtifactKey, message string) error {
	name := fmt.Sprintf("%s_%s_error.txt", key.Date, key.Resource)

	return s.writeFile(key.ParticipantID, name, []byte(message+"\n"))
}

// WriteProfile persists the participant's profile response.
func (s *store) WriteProfile(participantID string, raw []byte) error {
	return s.writeFile(participantID, profileFileName, raw)
}

func (s *store) writeFile(participantID, name string, data []byte) error {
	dir := s.participantDir(participantID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrapf(err, "mkdir %s", dir)
	}

	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)

		return errors.Wrapf(err, "rename %s", path)
	}

	return nil
}

// Read returns the raw JSON for the key, trying the canonical name first
// and then each legacy name in order.
func (s *store) Read(key repository.ArtifactKey) ([]byte, error) {
	dir := s.participantDir(key.ParticipantID)

	candidates := append([]string{fileName(key)}, legacyFileNames(key)...)
	for _, name := range candidates {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read %s", name)
		}
	}

	return nil, repository.ErrArtifactNotFound
}

// ReadProfile returns the participant's stored profile response.
func (s *store) ReadProfile(participantID string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.participantDir(participantID), profileFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrArtifactNotFound
		}

		return nil, errors.Wrap(err, "read profile")
	}

	return data, nil
}

// ExportPath resolves the output path for an export file, creating the
// exports directory as needed.
func (s *store) ExportPath(name string) (string, error) {
	dir := filepath.Join(s.root, "exports")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.Wrapf(err, "mkdir %s", dir)
	}

	return filepath.Join(dir, name), nil
}
