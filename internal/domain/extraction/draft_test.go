package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraft(t *testing.T) {
	bare := `{"name":"Jazz Night","date":"2026-06-20","time":"20:00","location":"Blue Note","ticketUrl":"https://tickets.example/jazz","description":"Late set"}`
	fenced := "```json\n" + bare + "\n```"

	for name, content := range map[string]string{"bare": bare, "fenced": fenced} {
		t.Run(name, func(t *testing.T) {
			draft, err := ParseDraft(content)
			require.NoError(t, err)
			assert.Equal(t, "Jazz Night", draft.Name)
			assert.Equal(t, "2026-06-20", draft.Date)
			require.NotNil(t, draft.Time)
			assert.Equal(t, "20:00", *draft.Time)
			assert.Equal(t, "Blue Note", draft.Location)
			assert.Equal(t, "https://tickets.example/jazz", draft.TicketURL)
			assert.Equal(t, "Late set", draft.Description)
		})
	}
}

func TestParseDraftTreatsSentinelsAsAbsent(t *testing.T) {
	draft, err := ParseDraft(`{"name":"Fair","date":null,"time":"none","location":"N/A","ticketUrl":null,"description":"null"}`)
	require.NoError(t, err)
	assert.Equal(t, "Fair", draft.Name)
	assert.Empty(t, draft.Date)
	assert.Nil(t, draft.Time)
	assert.Empty(t, draft.Location)
	assert.Empty(t, draft.TicketURL)
	assert.Empty(t, draft.Description)
}

func TestParseDraftErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty content", "", ErrExtractionEmpty},
		{"empty fence", "```json\n```", ErrExtractionEmpty},
		{"prose instead of JSON", "Sorry, I could not find an event.", ErrExtractionParse},
		{"truncated JSON", `{"name":"Fair"`, ErrExtractionParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDraft(tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
