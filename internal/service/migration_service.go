package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/discussion-engine-api/internal/resolver"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// migrationService is the concrete implementation of MigrationService
type migrationService struct {
	repos     *repository.Repositories
	batchSize int
	log       zerolog.Logger
	now       func() time.Time

	// run serializes backfills within this process
	run sync.Mutex

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func newMigrationService(repos *repository.Repositories, cfg config.DiscussionConfig, log zerolog.Logger, now func() time.Time) *migrationService {
	batchSize := cfg.MigrationBatchSize
	if batchSize < 1 {
		batchSize = 500
	}
	return &migrationService{
		repos:     repos,
		batchSize: batchSize,
		log:       log.With().Str("service", "migration").Logger(),
		now:       now,
	}
}

// MigrateLegacyComments copies item_id into target_id/target_type for every
// comment that does not have a target yet. Each batch commits on its own, so an
// interrupted run leaves a consistent state and the next run picks up the rest.
func (s *migrationService) MigrateLegacyComments(ctx context.Context) (*models.MigrationResult, error) {
	if err := resolver.RequireAdminCaller(ctx, s.repos.User); err != nil {
		return nil, err
	}

	s.run.Lock()
	defer s.run.Unlock()

	start := s.now()
	job := &models.Job{
		ID:        uuid.New().String(),
		Type:      models.JobTypeLegacyCommentBackfill,
		Status:    models.JobStatusProcessing,
		CreatedAt: start.UTC(),
		StartedAt: &start,
	}
	if err := s.repos.Job.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create migration job: %w", err)
	}

	log := s.log.With().Str("job_id", job.ID).Logger()
	log.Info().Int("batch_size", s.batchSize).Msg("Legacy comment backfill started")

	migrated, err := s.backfill(ctx, log)
	if err != nil {
		s.finish(job, start, migrated, 0, err)
		log.Error().Err(err).Int("migrated", migrated).Msg("Legacy comment backfill failed")
		return nil, err
	}

	total, err := s.repos.Comment.Count(ctx)
	if err != nil {
		err = fmt.Errorf("failed to count comments: %w", err)
		s.finish(job, start, migrated, 0, err)
		return nil, err
	}

	s.finish(job, start, migrated, total, nil)
	legacyCommentsMigrated.Add(float64(migrated))
	log.Info().
		Int("migrated", migrated).
		Int("total_comments", total).
		Int64("duration_ms", job.DurationMs).
		Msg("Legacy comment backfill completed")

	return &models.MigrationResult{JobID: job.ID, MigratedCount: migrated, TotalComments: total}, nil
}

func (s *migrationService) backfill(ctx context.Context, log zerolog.Logger) (int, error) {
	migrated := 0
	for {
		if err := ctx.Err(); err != nil {
			return migrated, err
		}

		var listed, changed int
		err := s.repos.Transact(ctx, func(tx *repository.Repositories) error {
			batch, err := tx.Comment.ListLegacy(ctx, s.batchSize)
			if err != nil {
				return fmt.Errorf("failed to list legacy comments: %w", err)
			}
			listed = len(batch)

			for _, legacy := range batch {
				if !legacy.NeedsMigration() {
					continue
				}
				ok, err := tx.Comment.SetTarget(ctx, legacy.ID, models.Target{ID: *legacy.ItemID, Type: models.TargetItem})
				if err != nil {
					return fmt.Errorf("failed to migrate comment %s: %w", legacy.ID, err)
				}
				if ok {
					changed++
				}
			}
			return nil
		})
		if err != nil {
			return migrated, err
		}

		migrated += changed
		log.Debug().Int("listed", listed).Int("migrated", changed).Msg("Backfill batch committed")

		if listed < s.batchSize || changed == 0 {
			return migrated, nil
		}
	}
}

// finish records the outcome of a run. It uses a fresh context so a cancelled
// run is still marked failed.
func (s *migrationService) finish(job *models.Job, start time.Time, migrated, total int, runErr error) {
	end := s.now()
	job.ProcessedCount = migrated
	job.TotalRecords = total
	job.DurationMs = end.Sub(start).Milliseconds()
	job.CompletedAt = &end
	job.Status = models.JobStatusCompleted
	if runErr != nil {
		job.Status = models.JobStatusFailed
		job.Error = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repos.Job.Update(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to update migration job")
	}
}

// GetJob returns a recorded backfill run
func (s *migrationService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	if err := resolver.RequireAdminCaller(ctx, s.repos.User); err != nil {
		return nil, err
	}
	job, err := s.repos.Job.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, models.NewDomainError(models.ErrNotFound, fmt.Sprintf("job %s not found", id))
	}
	return job, nil
}

// StartBackfill runs the legacy comment backfill in the background, once
func (s *migrationService) StartBackfill(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(auth.AsSystem(ctx))
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Msg("Legacy comment backfill panicked - recovered")
			}
		}()

		if _, err := s.MigrateLegacyComments(ctx); err != nil {
			s.log.Error().Err(err).Msg("Background legacy comment backfill failed")
		}
	}()
}

// StopBackfill cancels a background backfill and waits for it to return
func (s *migrationService) StopBackfill() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
