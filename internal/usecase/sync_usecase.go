package usecase

import (
	"context"

	"fitsync/internal/domain/entity"
)

// SyncInput selects what to pull for one participant. Dates are ISO
// (YYYY-MM-DD) and inclusive. Empty Resources falls back to the default
// subset; empty Granularity falls back to the finest supported.
type SyncInput struct {
	ParticipantID string   `json:"participant_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Resources     []string `json:"resources"`
	Granularity   string   `json:"granularity"`
}

// SyncUsecase is the day-by-day sync engine over a date range.
type SyncUsecase interface {
	// SyncRange walks each date of the inclusive range and fetches each
	// selected resource independently, persisting raw artifacts.
	// Per-resource failures are collected in the result, never raised;
	// the returned error is reserved for invalid input.
	SyncRange(ctx context.Context, input *SyncInput) (*entity.SyncResult, error)

	// SyncYesterday syncs the single day before today.
	SyncYesterday(ctx context.Context, participantID string, resources []string, granularity string) (*entity.SyncResult, error)
}
