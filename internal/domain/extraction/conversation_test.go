package extraction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Rashdan16/Event-sorter/internal/ai"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCompleter replays scripted responses and records every call.
type fakeCompleter struct {
	mu          sync.Mutex
	responses   []string
	err         error
	calls       [][]ai.Message
	block       chan struct{}
	started     chan struct{}
	startedOnce sync.Once
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	if f.block != nil {
		f.startedOnce.Do(func() { close(f.started) })
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeCompleter) CompleteVision(ctx context.Context, messages []ai.Message) (string, error) {
	return f.Complete(ctx, messages)
}

func TestConversationFlow(t *testing.T) {
	summary := "```json\n" + `{"eventReady":false,"name":"Jazz Night","date":"2026-06-20","time":"20:00","location":"Blue Note","ticketUrl":null,"description":null,"extraInfo":null}` + "\n```"
	confirmed := "```json\n" + `{"eventReady":true,"name":"Jazz Night","date":"2026-06-20","time":"20:00","location":"Blue Note","ticketUrl":null,"description":"Late set","extraInfo":"Bring ID"}` + "\n```"

	completer := &fakeCompleter{responses: []string{
		"What date is the event?",
		summary,
		confirmed,
	}}
	manager := NewManager(completer, zap.NewNop())
	owner := uuid.New()

	reply, err := manager.Send(context.Background(), owner, "I want to save a jazz concert")
	require.NoError(t, err)
	assert.Equal(t, StateCollecting, reply.State)
	assert.False(t, reply.Done)
	assert.Nil(t, reply.Draft)

	reply, err = manager.Send(context.Background(), owner, "June 20 at 8pm, Blue Note")
	require.NoError(t, err)
	assert.Equal(t, StateConfirmCreate, reply.State)
	assert.False(t, reply.Done)

	reply, err = manager.Send(context.Background(), owner, "yes, save it")
	require.NoError(t, err)
	assert.Equal(t, StateDone, reply.State)
	assert.True(t, reply.Done)
	require.NotNil(t, reply.Draft)
	assert.Equal(t, "Jazz Night", reply.Draft.Name)
	assert.Equal(t, "2026-06-20", reply.Draft.Date)
	assert.Equal(t, "Late set\nBring ID", reply.Draft.Description)
}

func TestConversationTranscriptIsAppendOnly(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Tell me more."}}
	manager := NewManager(completer, zap.NewNop())
	owner := uuid.New()

	_, err := manager.Send(context.Background(), owner, "first")
	require.NoError(t, err)
	_, err = manager.Send(context.Background(), owner, "second")
	require.NoError(t, err)

	transcript := manager.Transcript(owner)
	require.Len(t, transcript, 4)
	assert.Equal(t, Turn{Role: "user", Content: "first"}, transcript[0])
	assert.Equal(t, Turn{Role: "assistant", Content: "Tell me more."}, transcript[1])
	assert.Equal(t, Turn{Role: "user", Content: "second"}, transcript[2])

	// The provider sees the full history plus the system directive.
	last := completer.calls[len(completer.calls)-1]
	assert.Len(t, last, 4)
	assert.Equal(t, "system", last[0].Role)
}

func TestConversationRejectsConcurrentSend(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{"Thinking..."},
		block:     make(chan struct{}),
		started:   make(chan struct{}),
	}
	manager := NewManager(completer, zap.NewNop())
	owner := uuid.New()

	done := make(chan error, 1)
	go func() {
		_, err := manager.Send(context.Background(), owner, "slow one")
		done <- err
	}()

	// Wait until the first send holds the conversation lock.
	select {
	case <-completer.started:
	case <-time.After(time.Second):
		t.Fatal("first send never reached the provider")
	}

	_, err := manager.Send(context.Background(), owner, "impatient")
	assert.ErrorIs(t, err, ErrConversationBusy)

	close(completer.block)
	require.NoError(t, <-done)
}

func TestConversationReset(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Hello!"}}
	manager := NewManager(completer, zap.NewNop())
	owner := uuid.New()

	_, err := manager.Send(context.Background(), owner, "hi")
	require.NoError(t, err)
	assert.Equal(t, StateCollecting, manager.StateOf(owner))

	manager.Reset(owner)
	assert.Equal(t, StateGreeting, manager.StateOf(owner))
	assert.Empty(t, manager.Transcript(owner))
}
