package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const listCacheTTL = time.Minute

// listCache is the slice of the Redis client the service needs. A nil
// cache disables caching without changing behavior.
type listCache interface {
	CacheJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, v interface{}) error
	InvalidateUserEvents(ctx context.Context, userID uuid.UUID) error
}

// ListOptions narrows an active-list read.
type ListOptions struct {
	Search string
	Filter FilterMode
	Split  bool
}

// ListResult is the outcome of a list read. When Split is requested the
// Upcoming and Past slices are populated instead of Events.
type ListResult struct {
	Events   []Event `json:"events,omitempty"`
	Upcoming []Event `json:"upcoming,omitempty"`
	Past     []Event `json:"past,omitempty"`
}

// Service exposes the event lifecycle.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, in *EventInput) (*Event, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *EventInput) (*Event, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, opts ListOptions) (*ListResult, error)
}

type service struct {
	repo    Repository
	cache   listCache
	sweeper *Sweeper
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates the event service. cache may be nil.
func NewService(repo Repository, cache listCache, sweeper *Sweeper, log *zap.Logger) Service {
	return &service{
		repo:    repo,
		cache:   cache,
		sweeper: sweeper,
		log:     log,
		now:     time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, in *EventInput) (*Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	e := &Event{UserID: userID}
	e.apply(in)

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.log.Info("Event created",
		zap.String("event_id", e.ID.String()),
		zap.String("user_id", userID.String()))
	return e, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*Event, error) {
	return s.repo.GetActive(ctx, id, userID)
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, in *EventInput) (*Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetActive(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	e.apply(in)
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return e, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.log.Info("Event moved to bin",
		zap.String("event_id", id.String()),
		zap.String("user_id", userID.String()))
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, opts ListOptions) (*ListResult, error) {
	s.sweepAsync(userID)

	events, err := s.listActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	events = Search(events, opts.Search)
	if opts.Filter != "" {
		events = FilterByMode(events, opts.Filter, now)
	}

	if opts.Split {
		upcoming, past := SplitUpcoming(events, now)
		return &ListResult{Upcoming: upcoming, Past: past}, nil
	}
	return &ListResult{Events: events}, nil
}

// listActive reads through the per-user cache when one is configured.
func (s *service) listActive(ctx context.Context, userID uuid.UUID) ([]Event, error) {
	key := "events:list:" + userID.String()

	if s.cache != nil {
		var cached []Event
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	events, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheJSON(ctx, key, events, listCacheTTL); err != nil {
			s.log.Warn("Failed to cache event list", zap.Error(err))
		}
	}
	return events, nil
}

// sweepAsync fires the expiration sweeper without blocking the caller.
// Sweep failures are logged and otherwise ignored.
func (s *service) sweepAsync(userID uuid.UUID) {
	if s.sweeper == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		removed, err := s.sweeper.Sweep(ctx, userID, s.now())
		if err != nil {
			s.log.Warn("Expiration sweep failed",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			return
		}
		if removed > 0 {
			s.invalidate(ctx, userID)
		}
	}()
}

func (s *service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUserEvents(ctx, userID); err != nil {
		s.log.Warn("Failed to invalidate event cache",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
