package event

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BulkReport lists which ids of a bulk bin operation went through and
// which failed, with the failure reason per id.
type BulkReport struct {
	Succeeded []uuid.UUID          `json:"succeeded"`
	Failed    map[uuid.UUID]string `json:"failed"`
}

// BinService manages soft-deleted events.
type BinService interface {
	List(ctx context.Context, userID uuid.UUID) ([]Event, error)
	Restore(ctx context.Context, userID, id uuid.UUID) error
	PurgeOne(ctx context.Context, userID, id uuid.UUID) error
	PurgeAll(ctx context.Context, userID uuid.UUID) (int64, error)
	RestoreMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) *BulkReport
	PurgeMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) *BulkReport
}

type binService struct {
	repo  Repository
	cache listCache
	log   *zap.Logger
}

// NewBinService creates the bin service. cache may be nil.
func NewBinService(repo Repository, cache listCache, log *zap.Logger) BinService {
	return &binService{repo: repo, cache: cache, log: log}
}

func (s *binService) List(ctx context.Context, userID uuid.UUID) ([]Event, error) {
	return s.repo.ListDeleted(ctx, userID)
}

func (s *binService) Restore(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Restore(ctx, id, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.log.Info("Event restored from bin",
		zap.String("event_id", id.String()),
		zap.String("user_id", userID.String()))
	return nil
}

func (s *binService) PurgeOne(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Purge(ctx, id, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.log.Info("Event purged from bin",
		zap.String("event_id", id.String()),
		zap.String("user_id", userID.String()))
	return nil
}

func (s *binService) PurgeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	removed, err := s.repo.PurgeAllDeleted(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, userID)
	s.log.Info("Bin emptied",
		zap.String("user_id", userID.String()),
		zap.Int64("removed", removed))
	return removed, nil
}

func (s *binService) RestoreMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) *BulkReport {
	return s.bulk(ctx, userID, ids, s.repo.Restore)
}

func (s *binService) PurgeMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) *BulkReport {
	return s.bulk(ctx, userID, ids, s.repo.Purge)
}

// bulk runs op per id concurrently and collects a partial-success
// report. One bad id never fails the rest of the batch.
func (s *binService) bulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, op func(ctx context.Context, id, userID uuid.UUID) error) *BulkReport {
	report := &BulkReport{
		Succeeded: make([]uuid.UUID, 0, len(ids)),
		Failed:    make(map[uuid.UUID]string),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			err := op(ctx, id, userID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[id] = err.Error()
			} else {
				report.Succeeded = append(report.Succeeded, id)
			}
		}(id)
	}
	wg.Wait()

	if len(report.Succeeded) > 0 {
		s.invalidate(ctx, userID)
	}
	return report
}

func (s *binService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUserEvents(ctx, userID); err != nil {
		s.log.Warn("Failed to invalidate event cache",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
