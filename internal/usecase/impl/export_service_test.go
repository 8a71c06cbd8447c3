package impl

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"fitsync/internal/domain/entity"
	"fitsync/internal/domain/repository"
	mockRepo "fitsync/internal/mocks/repository"
	"fitsync/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func artifactKey(participantID, date string, resource entity.Resource, kind repository.ArtifactKind) repository.ArtifactKey {
	return repository.ArtifactKey{
		ParticipantID: participantID,
		Date:          date,
		Resource:      resource,
		Kind:          kind,
	}
}

func TestExportService_Export_CSV(t *testing.T) {
	artifacts := mockRepo.NewMockArtifactStore(t)
	svc := NewExportService(artifacts, slog.Default())
	dir := t.TempDir()
	ctx := context.Background()

	artifacts.On("ExportPath", mock.AnythingOfType("string")).
		Return(filepath.Join(dir, "out.csv"), nil)
	artifacts.On("ReadProfile", "p001").
		Return([]byte(`{"user":{"displayName":"Ada","age":34,"gender":"FEMALE","memberSince":"2019-05-01"}}`), nil)

	// Day 1 has every artifact; day 2 has none.
	artifacts.On("Read", artifactKey("p001", "2024-01-01", entity.ResourceSteps, repository.ArtifactSummary)).
		Return([]byte(`{"activities-steps":[{"dateTime":"2024-01-01","value":"8421"}]}`), nil)
	artifacts.On("Read", artifactKey("p001", "2024-01-01", entity.ResourceHeartRate, repository.ArtifactSummary)).
		Return([]byte(`{"activities-heart":[{"value":{"restingHeartRate":61}}]}`), nil)
	artifacts.On("Read", artifactKey("p001", "2024-01-01", entity.ResourceSleep, repository.ArtifactSingle)).
		Return([]byte(`{"sleep":[{"minutesAsleep":400,"efficiency":93},{"minutesAsleep":50,"efficiency":80}]}`), nil)
	artifacts.On("Read", artifactKey("p001", "2024-01-01", entity.ResourceWeight, repository.ArtifactSingle)).
		Return([]byte(`{"weight":[{"weight":72.5,"bmi":23.1}]}`), nil)
	artifacts.On("Read", mock.Anything).
		Return(nil, repository.ErrArtifactNotFound)

	path, err := svc.Export(ctx, &usecase.ExportInput{
		ParticipantID: "p001",
		StartDate:     "2024-01-01",
		EndDate:       "2024-01-02",
		Resources:     []string{"all"},
		Format:        "csv",
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Date", "Steps", "RestingHR", "SleepMinutes", "SleepEfficiency",
		"Weight", "DisplayName", "Age", "Gender", "MemberSince",
	}, rows[0])

	// Sleep minutes sum across sessions; efficiency comes from the longest one.
	assert.Equal(t, []string{
		"2024-01-01", "8421", "61", "450", "93", "72.5", "Ada", "34", "FEMALE", "2019-05-01",
	}, rows[1])

	// A day without artifacts still produces a row: zero steps, empty cells,
	// repeated profile columns.
	assert.Equal(t, []string{
		"2024-01-02", "0", "", "", "", "", "Ada", "34", "FEMALE", "2019-05-01",
	}, rows[2])
}

func TestExportService_Export_XLSX(t *testing.T) {
	artifacts := mockRepo.NewMockArtifactStore(t)
	svc := NewExportService(artifacts, slog.Default())
	dir := t.TempDir()
	ctx := context.Background()

	artifacts.On("ExportPath", mock.AnythingOfType("string")).
		Return(filepath.Join(dir, "out.xlsx"), nil)
	artifacts.On("Read", artifactKey("p001", "2024-01-01", entity.ResourceSteps, repository.ArtifactSummary)).
		Return([]byte(`{"activities-steps":[{"value":"1200"}]}`), nil)
	artifacts.On("Read", mock.Anything).
		Return(nil, repository.ErrArtifactNotFound)

	path, err := svc.Export(ctx, &usecase.ExportInput{
		ParticipantID: "p001",
		StartDate:     "2024-01-01",
		EndDate:       "2024-01-01",
		Resources:     []string{"steps", "heartrate"},
		Format:        "xlsx",
	})
	require.NoError(t, err)

	workbook, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(workbook.GetActiveSheetIndex()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Steps", "RestingHR"}, rows[0])
	// GetRows trims trailing empty cells, so the missing RestingHR cell
	// simply does not appear.
	assert.Equal(t, []string{"2024-01-01", "1200"}, rows[1])
}

func TestExportService_Export_MalformedArtifactsBecomeEmptyCells(t *testing.T) {
	artifacts := mockRepo.NewMockArtifactStore(t)
	svc := NewExportService(artifacts, slog.Default())
	dir := t.TempDir()
	ctx := context.Background()

	artifacts.On("ExportPath", mock.AnythingOfType("string")).
		Return(filepath.Join(dir, "out.csv"), nil)
	artifacts.On("Read", mock.Anything).
		Return([]byte(`<html>not json</html>`), nil)

	path, err := svc.Export(ctx, &usecase.ExportInput{
		ParticipantID: "p001",
		StartDate:     "2024-01-01",
		EndDate:       "2024-01-01",
		Resources:     []string{"heartrate", "sleep"},
		Format:        "csv",
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-01", "", "", ""}, rows[1])
}

func TestExportService_Export_UnsupportedFormat(t *testing.T) {
	artifacts := mockRepo.NewMockArtifactStore(t)
	svc := NewExportService(artifacts, slog.Default())
	ctx := context.Background()

	_, err := svc.Export(ctx, &usecase.ExportInput{
		ParticipantID: "p001",
		StartDate:     "2024-01-01",
		EndDate:       "2024-01-01",
		Format:        "pdf",
	})
	assertErrorCode(t, err, "UNSUPPORTED_FORMAT")
}

func TestExportService_Export_InvalidRange(t *testing.T) {
	artifacts := mockRepo.NewMockArtifactStore(t)
	svc := NewExportService(artifacts, slog.Default())
	ctx := context.Background()

	_, err := svc.Export(ctx, &usecase.ExportInput{
		ParticipantID: "p001",
		StartDate:     "2024-01-05",
		EndDate:       "2024-01-01",
		Format:        "csv",
	})
	assertErrorCode(t, err, "INVALID_DATE_RANGE")
}
