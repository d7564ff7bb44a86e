package event

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	mu     sync.Mutex
	events map[uuid.UUID]*Event
	err    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{events: make(map[uuid.UUID]*Event)}
}

func (m *mockRepository) Create(ctx context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *mockRepository) GetActive(ctx context.Context, id, userID uuid.UUID) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID || e.DeletedAt.Valid {
		return nil, ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockRepository) Update(ctx context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.events[e.ID]
	if !ok || stored.UserID != e.UserID || stored.DeletedAt.Valid {
		return ErrEventNotFound
	}
	cp := *e
	cp.DeletedAt = stored.DeletedAt
	m.events[e.ID] = &cp
	return nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID || e.DeletedAt.Valid {
		return ErrEventNotFound
	}
	e.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (m *mockRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []Event
	for _, e := range m.events {
		if e.UserID == userID && !e.DeletedAt.Valid {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *mockRepository) ListDeleted(ctx context.Context, userID uuid.UUID) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.UserID == userID && e.DeletedAt.Valid {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.Time.After(out[j].DeletedAt.Time) })
	return out, nil
}

func (m *mockRepository) Restore(ctx context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID || !e.DeletedAt.Valid {
		return ErrNotFoundInBin
	}
	e.DeletedAt = gorm.DeletedAt{}
	return nil
}

func (m *mockRepository) Purge(ctx context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID || !e.DeletedAt.Valid {
		return ErrNotFoundInBin
	}
	delete(m.events, id)
	return nil
}

func (m *mockRepository) PurgeAllDeleted(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, e := range m.events {
		if e.UserID == userID && e.DeletedAt.Valid {
			delete(m.events, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockRepository) ListEndedCandidates(ctx context.Context, userID uuid.UUID, before time.Time) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.UserID == userID && !e.StartDate.After(before) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) HardDelete(ctx context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.events, id)
	}
	return nil
}

func (m *mockRepository) has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[id]
	return ok
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, nil, zap.NewNop())
}

func TestServiceCreateAndGet(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	userID := uuid.New()

	in := validInput()
	in.Location = "Town Hall"
	created, err := svc.Create(context.Background(), userID, in)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.Get(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concert", got.Name)
	assert.Equal(t, "Town Hall", got.Location)
}

func TestServiceCreateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(newMockRepository())

	in := validInput()
	in.Name = ""
	_, err := svc.Create(context.Background(), uuid.New(), in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestServiceGetIsOwnerScoped(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestServiceUpdateReplacesAllFields(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	userID := uuid.New()

	in := validInput()
	in.Description = "original"
	in.Price = "20 EUR"
	created, err := svc.Create(context.Background(), userID, in)
	require.NoError(t, err)

	replacement := validInput()
	replacement.Name = "Renamed"
	updated, err := svc.Update(context.Background(), userID, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Empty(t, updated.Description)
	assert.Empty(t, updated.Price)
}

func TestServiceDeleteTwiceReportsNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, created.ID))

	err = svc.Delete(context.Background(), userID, created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.Get(context.Background(), userID, created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestServiceListFiltersAndSplits(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil, zap.NewNop()).(*service)
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC)
	}
	userID := uuid.New()

	for _, e := range []struct {
		name string
		day  int
	}{
		{"past gig", 9},
		{"lunch talk", 11},
		{"weekend fair", 14},
	} {
		in := validInput()
		in.Name = e.name
		in.StartDate = time.Date(2026, time.March, e.day, 0, 0, 0, 0, time.UTC)
		_, err := svc.Create(context.Background(), userID, in)
		require.NoError(t, err)
	}

	res, err := svc.List(context.Background(), userID, ListOptions{Filter: FilterToday})
	require.NoError(t, err)
	assert.Equal(t, []string{"lunch talk"}, names(res.Events))

	res, err = svc.List(context.Background(), userID, ListOptions{Search: "FAIR"})
	require.NoError(t, err)
	assert.Equal(t, []string{"weekend fair"}, names(res.Events))

	res, err = svc.List(context.Background(), userID, ListOptions{Split: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"lunch talk", "weekend fair"}, names(res.Upcoming))
	assert.Equal(t, []string{"past gig"}, names(res.Past))
}
