package extraction

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Rashdan16/Event-sorter/internal/ai"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State tracks where a conversation stands.
type State string

const (
	StateGreeting      State = "greeting"
	StateCollecting    State = "collecting"
	StateConfirmCreate State = "confirm_create"
	StateDone          State = "done"
)

// chatDirective steers the conversational extraction. The model proposes
// a summary payload with eventReady false and only flips it to true
// after the user explicitly confirms.
const chatDirective = `You help the user describe an event they want to save.
Ask for missing details one at a time. Name and date are required.
When you have enough, summarize and ask the user to confirm. With the
summary, and again after confirmation, respond with ONLY a fenced JSON object:
` + "```json\n" + `{"eventReady": bool, "name": string, "date": "YYYY-MM-DD" or null, "time": "HH:MM" or null, "location": string or null, "ticketUrl": string or null, "description": string or null, "extraInfo": string or null}
` + "```" + `
Set eventReady to false in the summary and true only after the user has
confirmed. Put anything noteworthy that fits no field into extraInfo.`

// Turn is one entry of a transcript. Transcripts are append-only; no
// turn is ever rewritten or dropped while a conversation lives.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is one assistant response. Done with a non-nil Draft means the
// user confirmed and the draft is ready to be created.
type Reply struct {
	Message string `json:"message"`
	State   State  `json:"state"`
	Draft   *Draft `json:"draft,omitempty"`
	Done    bool   `json:"done"`
}

type conversation struct {
	mu    sync.Mutex
	state State
	turns []Turn
}

// Manager holds one in-memory conversation per owner.
type Manager struct {
	client   Completer
	log      *zap.Logger
	mu       sync.Mutex
	sessions map[uuid.UUID]*conversation
}

func NewManager(client Completer, log *zap.Logger) *Manager {
	return &Manager{
		client:   client,
		log:      log,
		sessions: make(map[uuid.UUID]*conversation),
	}
}

func (m *Manager) session(ownerID uuid.UUID) *conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.sessions[ownerID]
	if !ok {
		conv = &conversation{state: StateGreeting}
		m.sessions[ownerID] = conv
	}
	return conv
}

// Send appends the user's message, asks the provider for the next turn
// and interprets it. Only one send per conversation may be in flight.
func (m *Manager) Send(ctx context.Context, ownerID uuid.UUID, message string) (*Reply, error) {
	conv := m.session(ownerID)

	if !conv.mu.TryLock() {
		return nil, ErrConversationBusy
	}
	defer conv.mu.Unlock()

	conv.turns = append(conv.turns, Turn{Role: "user", Content: message})

	messages := make([]ai.Message, 0, len(conv.turns)+1)
	messages = append(messages, ai.Message{Role: "system", Content: chatDirective})
	for _, turn := range conv.turns {
		messages = append(messages, ai.Message{Role: turn.Role, Content: turn.Content})
	}

	content, err := m.client.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	conv.turns = append(conv.turns, Turn{Role: "assistant", Content: content})

	payload, ok := parseCompletion(content)
	switch {
	case ok && payload.ready():
		conv.state = StateDone
		return &Reply{
			Message: "Event details confirmed.",
			State:   StateDone,
			Draft:   payload.draft(),
			Done:    true,
		}, nil
	case ok:
		conv.state = StateConfirmCreate
		return &Reply{Message: content, State: StateConfirmCreate}, nil
	default:
		if conv.state == StateGreeting {
			conv.state = StateCollecting
		}
		return &Reply{Message: content, State: conv.state}, nil
	}
}

// Reset discards the owner's conversation, transcript included.
func (m *Manager) Reset(ownerID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, ownerID)
}

// StateOf reports the current conversation state for the owner.
func (m *Manager) StateOf(ownerID uuid.UUID) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv, ok := m.sessions[ownerID]; ok {
		return conv.state
	}
	return StateGreeting
}

// Transcript returns a copy of the owner's transcript in order.
func (m *Manager) Transcript(ownerID uuid.UUID) []Turn {
	m.mu.Lock()
	conv, ok := m.sessions[ownerID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	conv.mu.Lock()
	defer conv.mu.Unlock()
	out := make([]Turn, len(conv.turns))
	copy(out, conv.turns)
	return out
}

// completionPayload is the summary object the chat directive requests.
// EventReady is a pointer so plain prose never masquerades as a payload.
type completionPayload struct {
	EventReady *bool `json:"eventReady"`
	rawDraft
	ExtraInfo *string `json:"extraInfo"`
}

func (p *completionPayload) ready() bool {
	return p.EventReady != nil && *p.EventReady
}

// draft builds the Draft, folding the companion note into description.
func (p *completionPayload) draft() *Draft {
	d := &Draft{
		Name:        field(p.Name),
		Date:        field(p.Date),
		Location:    field(p.Location),
		TicketURL:   field(p.rawDraft.TicketURL),
		Description: field(p.rawDraft.Description),
	}
	if t := field(p.Time); t != "" {
		d.Time = &t
	}
	if extra := field(p.ExtraInfo); extra != "" {
		if d.Description == "" {
			d.Description = extra
		} else {
			d.Description += "\n" + extra
		}
	}
	return d
}

func parseCompletion(content string) (*completionPayload, bool) {
	cleaned := stripFences(content)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, false
	}
	var payload completionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, false
	}
	if payload.EventReady == nil {
		return nil, false
	}
	return &payload, true
}
