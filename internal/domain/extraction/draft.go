package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Draft is an unconfirmed event proposal produced by extraction. Nothing
// is persisted until the user confirms it through event creation.
type Draft struct {
	Name        string  `json:"name"`
	Date        string  `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Location    string  `json:"location,omitempty"`
	TicketURL   string  `json:"ticket_url,omitempty"`
	Description string  `json:"description,omitempty"`
}

// rawDraft mirrors the wire shape the provider is instructed to emit.
// Pointers keep null, "none" and a real value apart.
type rawDraft struct {
	Name        *string `json:"name"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	TicketURL   *string `json:"ticketUrl"`
	Description *string `json:"description"`
}

// field collapses the provider's ways of saying "unknown" to an empty
// string: JSON null, "none", "null" and "n/a" all mean absent.
func field(p *string) string {
	if p == nil {
		return ""
	}
	v := strings.TrimSpace(*p)
	switch strings.ToLower(v) {
	case "none", "null", "n/a":
		return ""
	}
	return v
}

// stripFences removes a Markdown code fence wrapper when present, so a
// bare JSON object and a ```json fenced one parse identically.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseDraft decodes provider content into a Draft.
func ParseDraft(content string) (*Draft, error) {
	cleaned := stripFences(content)
	if cleaned == "" {
		return nil, ErrExtractionEmpty
	}

	var raw rawDraft
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}

	d := &Draft{
		Name:        field(raw.Name),
		Date:        field(raw.Date),
		Location:    field(raw.Location),
		TicketURL:   field(raw.TicketURL),
		Description: field(raw.Description),
	}
	if t := field(raw.Time); t != "" {
		d.Time = &t
	}
	return d, nil
}
