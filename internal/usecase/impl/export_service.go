package impl

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	deliverycontext "fitsync/internal/delivery/context"
	"fitsync/internal/domain/entity"
	domainerrors "fitsync/internal/domain/errors"
	"fitsync/internal/domain/repository"
	"fitsync/internal/usecase"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	exportFormatCSV  = "csv"
	exportFormatXLSX = "xlsx"
)

// exportService implements the ExportUsecase interface. It reads whatever
// artifacts the sync engine has accumulated and flattens them into one row
// per date; it never talks to the provider.
type exportService struct {
	artifacts repository.ArtifactStore
	logger    *slog.Logger
}

// NewExportService is the constructor for exportService.
func NewExportService(artifacts repository.ArtifactStore, logger *slog.Logger) usecase.ExportUsecase {
	return &exportService{
		artifacts: artifacts,
		logger:    logger,
	}
}

func (srv *exportService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Export reduces the participant's artifacts over the range into a CSV or
// XLSX file and returns its path.
func (srv *exportService) Export(ctx context.Context, input *usecase.ExportInput) (string, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = exportFormatCSV
	}
	if format != exportFormatCSV && format != exportFormatXLSX {
		return "", domainerrors.ErrUnsupportedFormat.WithDetails(input.Format)
	}

	start, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		return "", domainerrors.ErrInvalidDateRange.WithDetails("invalid start_date: " + input.StartDate)
	}
	end, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		return "", domainerrors.ErrInvalidDateRange.WithDetails("invalid end_date: " + input.EndDate)
	}
	if start.After(end) {
		return "", domainerrors.ErrInvalidDateRange.WithDetails("start_date is after end_date")
	}

	resources := entity.NormalizeResources(input.Resources)

	header := []string{"Date"}
	for _, resource := range resources {
		switch resource {
		case entity.ResourceSteps:
			header = append(header, "Steps")
		case entity.ResourceHeartRate:
			header = append(header, "RestingHR")
		case entity.ResourceSleep:
			header = append(header, "SleepMinutes", "SleepEfficiency")
		case entity.ResourceWeight:
			header = append(header, "Weight")
		case entity.ResourceProfile:
			header = append(header, "DisplayName", "Age", "Gender", "MemberSince")
		}
	}

	var profile profileCells
	if containsResource(resources, entity.ResourceProfile) {
		if raw, err := srv.artifacts.ReadProfile(input.ParticipantID); err == nil {
			profile = parseProfile(raw)
		}
	}

	rows := [][]string{header}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		rows = append(rows, srv.buildRow(input.ParticipantID, date, resources, profile))
	}

	name := fmt.Sprintf("fitbit_export_%s_%s_%s_%s.%s",
		input.ParticipantID, input.StartDate, input.EndDate,
		time.Now().Format("20060102150405"), format)

	path, err := srv.artifacts.ExportPath(name)
	if err != nil {
		return "", domainerrors.ErrExportFailed.WithDetails(err.Error())
	}

	switch format {
	case exportFormatCSV:
		err = writeCSV(path, rows)
	case exportFormatXLSX:
		err = writeXLSX(path, rows)
	}
	if err != nil {
		return "", domainerrors.ErrExportFailed.WithDetails(err.Error())
	}

	srv.log(ctx).Info("Export written",
		slog.String("participant_id", input.ParticipantID),
		slog.String("path", path),
		slog.Int("rows", len(rows)-1),
	)

	return path, nil
}

// buildRow assembles one date's row. Missing or unparseable artifacts leave
// their cells empty; a missing steps summary is reported as 0 because the
// provider itself reports zero-activity days that way.
func (srv *exportService) buildRow(participantID, date string, resources []entity.Resource, profile profileCells) []string {
	row := []string{date}
	for _, resource := range resources {
		switch resource {
		case entity.ResourceSteps:
			cell := "0"
			if raw, err := srv.artifacts.Read(repository.ArtifactKey{
				ParticipantID: participantID,
				Date:          date,
				Resource:      entity.ResourceSteps,
				Kind:          repository.ArtifactSummary,
			}); err == nil {
				if steps, ok := parseSteps(raw); ok {
					cell = strconv.Itoa(steps)
				}
			}
			row = append(row, cell)
		case entity.ResourceHeartRate:
			cell := ""
			if raw, err := srv.artifacts.Read(repository.ArtifactKey{
				ParticipantID: participantID,
				Date:          date,
				Resource:      entity.ResourceHeartRate,
				Kind:          repository.ArtifactSummary,
			}); err == nil {
				if resting, ok := parseRestingHeartRate(raw); ok {
					cell = strconv.Itoa(resting)
				}
			}
			row = append(row, cell)
		case entity.ResourceSleep:
			minutesCell, efficiencyCell := "", ""
			if raw, err := srv.artifacts.Read(repository.ArtifactKey{
				ParticipantID: participantID,
				Date:          date,
				Resource:      entity.ResourceSleep,
				Kind:          repository.ArtifactSingle,
			}); err == nil {
				if minutes, efficiency, ok := parseSleep(raw); ok {
					minutesCell = strconv.Itoa(minutes)
					efficiencyCell = strconv.Itoa(efficiency)
				}
			}
			row = append(row, minutesCell, efficiencyCell)
		case entity.ResourceWeight:
			cell := ""
			if raw, err := srv.artifacts.Read(repository.ArtifactKey{
				ParticipantID: participantID,
				Date:          date,
				Resource:      entity.ResourceWeight,
				Kind:          repository.ArtifactSingle,
			}); err == nil {
				if weight, ok := parseWeight(raw); ok {
					cell = strconv.FormatFloat(weight, 'f', -1, 64)
				}
			}
			row = append(row, cell)
		case entity.ResourceProfile:
			row = append(row, profile.DisplayName, profile.Age, profile.Gender, profile.MemberSince)
		}
	}

	return row
}

func containsResource(resources []entity.Resource, target entity.Resource) bool {
	for _, resource := range resources {
		if resource == target {
			return true
		}
	}

	return false
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to write rows")
	}

	return errors.Wrap(file.Close(), "failed to close export file")
}

func writeXLSX(path string, rows [][]string) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	sheet := workbook.GetSheetName(workbook.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "failed to address row")
		}
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		if err := workbook.SetSheetRow(sheet, cell, &cells); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}

	return errors.Wrap(workbook.SaveAs(path), "failed to save workbook")
}
