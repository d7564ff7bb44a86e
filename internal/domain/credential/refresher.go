package credential

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// refreshMargin forces a refresh when the access token is about to run
// out mid-request.
const refreshMargin = 5 * time.Minute

// Refresher hands out access tokens that are good for at least the
// margin, refreshing and persisting them when needed.
type Refresher struct {
	repo         Repository
	clientID     string
	clientSecret string
	log          *zap.Logger
	now          func() time.Time

	// tokenSource is swappable so tests can avoid Google's endpoint.
	tokenSource func(ctx context.Context, token *oauth2.Token) oauth2.TokenSource
}

func NewRefresher(repo Repository, clientID, clientSecret string, log *zap.Logger) *Refresher {
	r := &Refresher{
		repo:         repo,
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          log,
		now:          time.Now,
	}
	r.tokenSource = func(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
		conf := &oauth2.Config{
			ClientID:     r.clientID,
			ClientSecret: r.clientSecret,
			Endpoint:     google.Endpoint,
		}
		return conf.TokenSource(ctx, token)
	}
	return r
}

// EnsureFresh returns a usable token for the credential, refreshing and
// persisting it when expiry is inside the margin.
func (r *Refresher) EnsureFresh(ctx context.Context, cred *OAuthCredential) (*oauth2.Token, error) {
	current := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
	}

	if cred.Expiry.After(r.now().Add(refreshMargin)) {
		return current, nil
	}

	refreshed, err := r.tokenSource(ctx, current).Token()
	if err != nil {
		r.log.Warn("OAuth token refresh failed",
			zap.String("user_id", cred.UserID.String()),
			zap.String("provider", cred.Provider),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCredentialRefreshFailed, err)
	}

	cred.AccessToken = refreshed.AccessToken
	cred.Expiry = refreshed.Expiry
	if refreshed.RefreshToken != "" {
		cred.RefreshToken = refreshed.RefreshToken
	}

	if err := r.repo.Upsert(ctx, cred); err != nil {
		return nil, err
	}

	r.log.Info("OAuth token refreshed",
		zap.String("user_id", cred.UserID.String()),
		zap.String("provider", cred.Provider))
	return refreshed, nil
}
