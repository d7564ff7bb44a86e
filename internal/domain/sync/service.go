package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rashdan16/Event-sorter/internal/domain/credential"
	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// timedEventDuration is the calendar slot length for events that carry
// a start time but no explicit end.
const timedEventDuration = time.Hour

// ErrAlreadySynced rejects a second sync of the same event.
var ErrAlreadySynced = errors.New("sync: event is already on the calendar")

// ErrCalendarCreateFailed means the calendar provider rejected the
// insert for a reason other than bad credentials.
var ErrCalendarCreateFailed = errors.New("sync: calendar rejected the event")

// SyncResult identifies the created calendar entry.
type SyncResult struct {
	ExternalID string `json:"external_id"`
	ViewURL    string `json:"view_url,omitempty"`
}

type eventStore interface {
	GetActive(ctx context.Context, id, userID uuid.UUID) (*event.Event, error)
	Update(ctx context.Context, e *event.Event) error
}

type credentialStore interface {
	Get(ctx context.Context, userID uuid.UUID, provider string) (*credential.OAuthCredential, error)
}

type tokenProvider interface {
	EnsureFresh(ctx context.Context, cred *credential.OAuthCredential) (*oauth2.Token, error)
}

// inserter performs the calendar insert. Swappable for tests.
type inserter func(ctx context.Context, token *oauth2.Token, ev *calendar.Event) (*calendar.Event, error)

// Service pushes confirmed events to the user's Google Calendar.
type Service struct {
	events    eventStore
	creds     credentialStore
	refresher tokenProvider
	insert    inserter
	loc       *time.Location
	log       *zap.Logger
}

// NewService creates the sync orchestrator. Times are interpreted in
// loc; nil means local time.
func NewService(events eventStore, creds credentialStore, refresher tokenProvider, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		events:    events,
		creds:     creds,
		refresher: refresher,
		insert:    googleInsert,
		loc:       loc,
		log:       log,
	}
}

// Sync creates a calendar entry for an owned active event and records
// the external id on the event. Each event syncs at most once.
func (s *Service) Sync(ctx context.Context, ownerID, eventID uuid.UUID) (*SyncResult, error) {
	e, err := s.events.GetActive(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	if e.GoogleEventID != nil {
		return nil, ErrAlreadySynced
	}

	cred, err := s.creds.Get(ctx, ownerID, credential.ProviderGoogle)
	if err != nil {
		return nil, err
	}

	token, err := s.refresher.EnsureFresh(ctx, cred)
	if err != nil {
		return nil, err
	}

	created, err := s.insert(ctx, token, buildCalendarEvent(e, s.loc))
	if err != nil {
		if needsReauth(err) {
			return nil, fmt.Errorf("%w: calendar rejected the credentials", credential.ErrCredentialRefreshFailed)
		}
		return nil, fmt.Errorf("%w: %v", ErrCalendarCreateFailed, err)
	}

	externalID := created.Id
	e.GoogleEventID = &externalID
	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info("Event synced to calendar",
		zap.String("event_id", eventID.String()),
		zap.String("external_id", externalID))

	return &SyncResult{ExternalID: externalID, ViewURL: created.HtmlLink}, nil
}

// buildCalendarEvent maps an event onto the calendar wire shape. Timed
// events get a one hour slot; events without a time become all-day.
func buildCalendarEvent(e *event.Event, loc *time.Location) *calendar.Event {
	ce := &calendar.Event{
		Summary:     e.Name,
		Location:    e.Location,
		Description: e.Description,
	}
	if e.TicketURL != "" {
		if ce.Description != "" {
			ce.Description += "\n"
		}
		ce.Description += "Tickets: " + e.TicketURL
	}

	day := e.StartDate
	endDay := day
	if e.EndDate != nil {
		endDay = *e.EndDate
	}

	if e.EventTime != nil {
		t, err := time.Parse("15:04", *e.EventTime)
		if err == nil {
			start := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
			end := start.Add(timedEventDuration)
			ce.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()}
			ce.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()}
			return ce
		}
	}

	ce.Start = &calendar.EventDateTime{Date: day.Format("2006-01-02")}
	ce.End = &calendar.EventDateTime{Date: endDay.Format("2006-01-02")}
	return ce
}

// googleInsert creates the event on the user's primary calendar.
func googleInsert(ctx context.Context, token *oauth2.Token, ev *calendar.Event) (*calendar.Event, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar client: %w", err)
	}
	return svc.Events.Insert("primary", ev).Context(ctx).Do()
}

// needsReauth classifies provider failures that only a fresh user
// authorization can fix.
func needsReauth(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 401 || gerr.Code == 403
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return rerr.ErrorCode == "invalid_grant"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid_grant") || strings.Contains(msg, "insufficient")
}
