package credential

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type mockRepository struct {
	mu    sync.Mutex
	creds map[string]*OAuthCredential
}

func newMockRepository() *mockRepository {
	return &mockRepository{creds: make(map[string]*OAuthCredential)}
}

func key(userID uuid.UUID, provider string) string {
	return userID.String() + "/" + provider
}

func (m *mockRepository) Upsert(ctx context.Context, cred *OAuthCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cred
	m.creds[key(cred.UserID, cred.Provider)] = &cp
	return nil
}

func (m *mockRepository) Get(ctx context.Context, userID uuid.UUID, provider string) (*OAuthCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.creds[key(userID, provider)]
	if !ok {
		return nil, ErrCredentialMissing
	}
	cp := *cred
	return &cp, nil
}

func (m *mockRepository) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, key(userID, provider))
	return nil
}

type staticTokenSource struct {
	token *oauth2.Token
	err   error
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	return s.token, s.err
}

func newTestRefresher(repo Repository, now time.Time, source oauth2.TokenSource) *Refresher {
	r := NewRefresher(repo, "client-id", "client-secret", zap.NewNop())
	r.now = func() time.Time { return now }
	r.tokenSource = func(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
		return source
	}
	return r
}

func TestEnsureFreshSkipsRefreshWhenTokenIsGood(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	cred := &OAuthCredential{
		UserID:      uuid.New(),
		Provider:    ProviderGoogle,
		AccessToken: "still-good",
		Expiry:      now.Add(time.Hour),
	}

	refresher := newTestRefresher(newMockRepository(), now, &staticTokenSource{
		err: errors.New("should not be called"),
	})

	token, err := refresher.EnsureFresh(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, "still-good", token.AccessToken)
}

func TestEnsureFreshRefreshesNearExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := newMockRepository()
	cred := &OAuthCredential{
		UserID:       uuid.New(),
		Provider:     ProviderGoogle,
		AccessToken:  "stale",
		RefreshToken: "refresh-me",
		Expiry:       now.Add(time.Minute),
	}
	require.NoError(t, repo.Upsert(context.Background(), cred))

	refresher := newTestRefresher(repo, now, &staticTokenSource{
		token: &oauth2.Token{AccessToken: "fresh", Expiry: now.Add(time.Hour)},
	})

	token, err := refresher.EnsureFresh(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)

	// The refreshed token was written back.
	stored, err := repo.Get(context.Background(), cred.UserID, ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "fresh", stored.AccessToken)
	assert.Equal(t, now.Add(time.Hour), stored.Expiry)
	assert.Equal(t, "refresh-me", stored.RefreshToken)
}

func TestEnsureFreshSurfacesRefreshFailure(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	cred := &OAuthCredential{
		UserID:       uuid.New(),
		Provider:     ProviderGoogle,
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       now.Add(-time.Minute),
	}

	refresher := newTestRefresher(newMockRepository(), now, &staticTokenSource{
		err: errors.New("invalid_grant"),
	})

	_, err := refresher.EnsureFresh(context.Background(), cred)
	assert.ErrorIs(t, err, ErrCredentialRefreshFailed)
}
