package usecase

import (
	"context"
)

// ExportInput selects the range, resources and output format of an export.
type ExportInput struct {
	ParticipantID string   `json:"participant_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Resources     []string `json:"resources"`
	Format        string   `json:"format"`
}

// ExportUsecase reduces a participant's artifact directory into one flat
// date-indexed table. It performs no network calls; malformed or missing
// artifacts become empty cells, never failures.
type ExportUsecase interface {
	// Export writes the tabular file and returns its path.
	Export(ctx context.Context, input *ExportInput) (string, error)
}
