package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// expirationGrace keeps an event around for a while after its effective
// end before the sweeper removes it for good.
const expirationGrace = time.Hour

// Sweeper hard-deletes events that ended long enough ago, whether they
// are active or already in the bin.
type Sweeper struct {
	repo Repository
	log  *zap.Logger
	loc  *time.Location
}

// NewSweeper creates a sweeper evaluating event ends in the given
// location. A nil location means local time.
func NewSweeper(repo Repository, log *zap.Logger, loc *time.Location) *Sweeper {
	if loc == nil {
		loc = time.Local
	}
	return &Sweeper{repo: repo, log: log, loc: loc}
}

// ExpiredIDs returns the ids of events whose effective end plus grace
// is at or before now.
func (s *Sweeper) ExpiredIDs(events []Event, now time.Time) []uuid.UUID {
	var ids []uuid.UUID
	for _, e := range events {
		if !e.EffectiveEnd(s.loc).Add(expirationGrace).After(now) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Sweep removes every expired event belonging to the user and returns
// how many rows went away. Repeated sweeps are harmless.
func (s *Sweeper) Sweep(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	candidates, err := s.repo.ListEndedCandidates(ctx, userID, now)
	if err != nil {
		return 0, err
	}

	ids := s.ExpiredIDs(candidates, now)
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.repo.HardDelete(ctx, ids); err != nil {
		return 0, err
	}

	s.log.Info("Swept expired events",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(ids)))
	return len(ids), nil
}
