package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fitsync/config"
	deliverycontext "fitsync/internal/delivery/context"
	"fitsync/internal/domain/entity"
	domainerrors "fitsync/internal/domain/errors"
	"fitsync/internal/domain/repository"
	"fitsync/internal/domain/service"
	"fitsync/internal/usecase"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// syncService implements the SyncUsecase interface. One invocation walks a
// date range day by day and persists every raw response it manages to fetch;
// a failed fetch costs only that one artifact.
type syncService struct {
	credentials repository.CredentialRepository
	artifacts   repository.ArtifactStore
	provider    service.FitnessProvider
	cfg         *config.SyncConfig
	logger      *slog.Logger
}

// NewSyncService is the constructor for syncService.
func NewSyncService(
	credentials repository.CredentialRepository,
	artifacts repository.ArtifactStore,
	provider service.FitnessProvider,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.SyncUsecase {
	return &syncService{
		credentials: credentials,
		artifacts:   artifacts,
		provider:    provider,
		cfg:         cfg.Sync,
		logger:      logger,
	}
}

func (srv *syncService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SyncRange fetches each selected resource for each day of the inclusive
// range. The day loop never aborts on a fetch failure; failures are
// collected per resource and the day still counts as synced.
func (srv *syncService) SyncRange(ctx context.Context, input *usecase.SyncInput) (*entity.SyncResult, error) {
	start, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		return nil, domainerrors.ErrInvalidDateRange.WithDetails("invalid start_date: " + input.StartDate)
	}
	end, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		return nil, domainerrors.ErrInvalidDateRange.WithDetails("invalid end_date: " + input.EndDate)
	}
	if start.After(end) {
		return nil, domainerrors.ErrInvalidDateRange.WithDetails("start_date is after end_date")
	}

	resources := entity.NormalizeResources(input.Resources)
	granularity := srv.resolveGranularity(input.Granularity)

	credential, err := srv.credentials.FindByParticipantID(ctx, input.ParticipantID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return &entity.SyncResult{
				Status:     entity.SyncStatusNoCredential,
				Message:    domainerrors.ErrNoCredential.Message(),
				SyncedDays: []string{},
				Errors:     []string{},
			}, nil
		}

		return nil, errors.Wrap(err, "failed to load credential")
	}

	session := srv.provider.NewSession(service.TokenSet{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
		ExpiresAt:    credential.ExpiresAt,
		UserID:       credential.ProviderUserID,
		Scope:        credential.Scope,
		TokenType:    credential.TokenType,
	}, srv.persistRefresh(ctx, credential))

	result := &entity.SyncResult{
		Status:     entity.SyncStatusOK,
		SyncedDays: []string{},
		Errors:     []string{},
	}

	srv.log(ctx).Info("Sync started",
		slog.String("participant_id", input.ParticipantID),
		slog.String("start_date", input.StartDate),
		slog.String("end_date", input.EndDate),
		slog.Any("resources", resources),
	)

	wantProfile := false

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		for _, resource := range resources {
			if resource == entity.ResourceProfile {
				wantProfile = true

				continue
			}
			srv.syncResourceDay(ctx, session, input.ParticipantID, resource, date, granularity, result)
		}
		result.SyncedDays = append(result.SyncedDays, date)

		if day.Before(end) {
			if err := srv.pause(ctx); err != nil {
				result.Status = entity.SyncStatusError
				result.Message = "sync aborted: " + err.Error()

				break
			}
		}
	}

	// The profile has no date dimension; one fetch covers the whole range.
	if wantProfile {
		srv.syncProfile(ctx, session, input.ParticipantID, result)
	}

	result.Count = len(result.SyncedDays)
	result.RateLimit = session.RateLimit()

	srv.log(ctx).Info("Sync finished",
		slog.String("participant_id", input.ParticipantID),
		slog.Int("synced_days", result.Count),
		slog.Int("errors", len(result.Errors)),
	)

	return result, nil
}

// SyncYesterday syncs the single day before today.
func (srv *syncService) SyncYesterday(ctx context.Context, participantID string, resources []string, granularity string) (*entity.SyncResult, error) {
	yesterday := time.Now().AddDate(0, 0, -1).Format(dateLayout)

	return srv.SyncRange(ctx, &usecase.SyncInput{
		ParticipantID: participantID,
		StartDate:     yesterday,
		EndDate:       yesterday,
		Resources:     resources,
		Granularity:   granularity,
	})
}

// syncResourceDay fetches and persists one resource for one date. Activity
// resources produce two artifacts (summary and intraday); a failed intraday
// fetch additionally leaves an error marker so the gap is visible on disk.
func (srv *syncService) syncResourceDay(
	ctx context.Context,
	session service.ProviderSession,
	participantID string,
	resource entity.Resource,
	date string,
	granularity entity.Granularity,
	result *entity.SyncResult,
) {
	if resource.HasIntraday() {
		summaryKey := repository.ArtifactKey{
			ParticipantID: participantID,
			Date:          date,
			Resource:      resource,
			Kind:          repository.ArtifactSummary,
		}
		if raw, err := session.FetchDailySummary(ctx, resource, date); err != nil {
			srv.recordError(ctx, result, date, resource, err)
		} else if err := srv.artifacts.Write(summaryKey, raw); err != nil {
			srv.recordError(ctx, result, date, resource, err)
		}

		intradayKey := repository.ArtifactKey{
			ParticipantID: participantID,
			Date:          date,
			Resource:      resource,
			Kind:          repository.ArtifactIntraday,
			Granularity:   granularity,
		}
		if raw, err := session.FetchIntraday(ctx, resource, date, granularity); err != nil {
			srv.recordError(ctx, result, date, resource, err)
			if markErr := srv.artifacts.WriteError(intradayKey, err.Error()); markErr != nil {
				srv.log(ctx).Warn("Failed to write error marker",
					slog.String("date", date),
					slog.String("resource", string(resource)),
					slog.Any("error", markErr),
				)
			}
		} else if err := srv.artifacts.Write(intradayKey, raw); err != nil {
			srv.recordError(ctx, result, date, resource, err)
		}

		return
	}

	var (
		raw []byte
		err error
	)
	switch resource {
	case entity.ResourceSleep:
		raw, err = session.FetchSleep(ctx, date)
	case entity.ResourceWeight:
		raw, err = session.FetchWeight(ctx, date)
	default:
		return
	}
	if err != nil {
		srv.recordError(ctx, result, date, resource, err)

		return
	}

	key := repository.ArtifactKey{
		ParticipantID: participantID,
		Date:          date,
		Resource:      resource,
		Kind:          repository.ArtifactSingle,
	}
	if err := srv.artifacts.Write(key, raw); err != nil {
		srv.recordError(ctx, result, date, resource, err)
	}
}

func (srv *syncService) syncProfile(ctx context.Context, session service.ProviderSession, participantID string, result *entity.SyncResult) {
	raw, err := session.FetchProfile(ctx)
	if err != nil {
		srv.recordProfileError(ctx, result, err)

		return
	}
	if err := srv.artifacts.WriteProfile(participantID, raw); err != nil {
		srv.recordProfileError(ctx, result, err)
	}
}

// recordError appends one per-resource failure to the result.
func (srv *syncService) recordError(ctx context.Context, result *entity.SyncResult, date string, resource entity.Resource, err error) {
	srv.recordFailure(ctx, result, date+" "+string(resource), err)
}

// recordProfileError labels profile failures without a date. The profile is
// fetched once per sync rather than per day.
func (srv *syncService) recordProfileError(ctx context.Context, result *entity.SyncResult, err error) {
	srv.recordFailure(ctx, result, "profile", err)
}

// recordFailure flags rate-limit failures so callers can tell quota
// exhaustion from data gaps.
func (srv *syncService) recordFailure(ctx context.Context, result *entity.SyncResult, target string, err error) {
	message := err.Error()
	if isRateLimited(message) {
		message = "rate limited: " + message
	}
	result.Errors = append(result.Errors, target+": "+message)

	srv.log(ctx).Warn("Resource fetch failed",
		slog.String("target", target),
		slog.Any("error", err),
	)
}

func isRateLimited(message string) bool {
	lower := strings.ToLower(message)

	return strings.Contains(lower, "429") ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "too many requests")
}

// persistRefresh stores refreshed tokens immediately so a refresh survives
// even when the sync that triggered it later fails.
func (srv *syncService) persistRefresh(ctx context.Context, credential *entity.Credential) service.RefreshFunc {
	return func(token service.TokenSet) error {
		credential.AccessToken = token.AccessToken
		credential.RefreshToken = token.RefreshToken
		credential.ExpiresAt = token.ExpiresAt
		if token.UserID != "" {
			credential.ProviderUserID = token.UserID
		}
		if token.Scope != "" {
			credential.Scope = token.Scope
		}
		if token.TokenType != "" {
			credential.TokenType = token.TokenType
		}
		if err := srv.credentials.Upsert(ctx, credential); err != nil {
			return errors.Wrap(err, "failed to persist refreshed token")
		}

		srv.log(ctx).Info("Access token refreshed", slog.String("participant_id", credential.ParticipantID))

		return nil
	}
}

func (srv *syncService) resolveGranularity(name string) entity.Granularity {
	if strings.TrimSpace(name) == "" {
		name = srv.cfg.DefaultGranularity
	}

	return entity.NormalizeGranularity(name)
}

// pause sleeps the configured inter-day interval, honoring cancellation.
func (srv *syncService) pause(ctx context.Context) error {
	timer := time.NewTimer(srv.cfg.InterDayPause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
