package extraction

import (
	"context"
	"fmt"

	"github.com/Rashdan16/Event-sorter/internal/ai"
	"go.uber.org/zap"
)

// extractionDirective is the fixed system instruction for one-shot
// extraction from a poster image or page text.
const extractionDirective = `You extract event details from the input.
Respond with exactly one JSON object and nothing else:
{"name": string, "date": "YYYY-MM-DD" or null, "time": "HH:MM" or null, "location": string or null, "ticketUrl": string or null, "description": string or null}
Use null for anything you cannot determine. Do not guess dates.`

// Completer is the slice of the AI client the adapter needs.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
	CompleteVision(ctx context.Context, messages []ai.Message) (string, error)
}

// Adapter turns posters and web pages into event drafts with a single
// provider call per invocation. It holds no state and persists nothing.
type Adapter struct {
	client Completer
	log    *zap.Logger
}

func NewAdapter(client Completer, log *zap.Logger) *Adapter {
	return &Adapter{client: client, log: log}
}

// ExtractFromImage sends a poster image to the vision model and parses
// the resulting draft.
func (a *Adapter) ExtractFromImage(ctx context.Context, image []byte, mimeType string) (*Draft, error) {
	messages := []ai.Message{
		{Role: "system", Content: extractionDirective},
		{Role: "user", Content: []ai.ContentPart{
			ai.TextPart("Extract the event from this poster."),
			ai.ImagePart(image, mimeType),
		}},
	}

	content, err := a.client.CompleteVision(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("image extraction failed: %w", err)
	}

	draft, err := ParseDraft(content)
	if err != nil {
		a.log.Warn("Unparseable image extraction response", zap.Error(err))
		return nil, err
	}
	return draft, nil
}

// ExtractFromText extracts a draft from page text. When the provider
// finds no ticket link the source URL stands in for it.
func (a *Adapter) ExtractFromText(ctx context.Context, text, sourceURL string) (*Draft, error) {
	messages := []ai.Message{
		{Role: "system", Content: extractionDirective},
		{Role: "user", Content: text},
	}

	content, err := a.client.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	draft, err := ParseDraft(content)
	if err != nil {
		a.log.Warn("Unparseable text extraction response", zap.Error(err))
		return nil, err
	}

	if draft.TicketURL == "" {
		draft.TicketURL = sourceURL
	}
	return draft, nil
}
