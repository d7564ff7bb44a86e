package extraction

import (
	"context"
	"testing"

	"github.com/Rashdan16/Event-sorter/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractFromTextFallsBackToSourceURL(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`{"name":"Street Fair","date":"2026-07-04","time":null,"location":"Main St","ticketUrl":null,"description":null}`,
	}}
	adapter := NewAdapter(completer, zap.NewNop())

	draft, err := adapter.ExtractFromText(context.Background(), "Street fair on July 4th, Main St", "https://fair.example/page")
	require.NoError(t, err)
	assert.Equal(t, "Street Fair", draft.Name)
	assert.Equal(t, "https://fair.example/page", draft.TicketURL)
}

func TestExtractFromTextKeepsProviderTicketURL(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`{"name":"Street Fair","date":"2026-07-04","time":null,"location":null,"ticketUrl":"https://tickets.example/fair","description":null}`,
	}}
	adapter := NewAdapter(completer, zap.NewNop())

	draft, err := adapter.ExtractFromText(context.Background(), "text", "https://fair.example/page")
	require.NoError(t, err)
	assert.Equal(t, "https://tickets.example/fair", draft.TicketURL)
}

func TestExtractFromImage(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"```json\n" + `{"name":"Poster Gig","date":"2026-08-01","time":"21:00","location":"Warehouse","ticketUrl":null,"description":null}` + "\n```",
	}}
	adapter := NewAdapter(completer, zap.NewNop())

	draft, err := adapter.ExtractFromImage(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Poster Gig", draft.Name)
	require.NotNil(t, draft.Time)
	assert.Equal(t, "21:00", *draft.Time)

	// The image travels inline as a multimodal part.
	call := completer.calls[0]
	require.Len(t, call, 2)
	parts, ok := call[1].Content.([]ai.ContentPart)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "image_url", parts[1].Type)
}

func TestExtractSurfacesParseError(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"no event here, sorry"}}
	adapter := NewAdapter(completer, zap.NewNop())

	_, err := adapter.ExtractFromText(context.Background(), "text", "")
	assert.ErrorIs(t, err, ErrExtractionParse)
}
