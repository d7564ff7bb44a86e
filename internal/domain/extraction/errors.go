package extraction

import "errors"

// Extraction errors. Handlers translate these to HTTP statuses.
var (
	// ErrExtractionParse means the provider answered but its content was
	// not the expected JSON object.
	ErrExtractionParse = errors.New("extraction: provider response is not valid event JSON")

	// ErrExtractionEmpty means the provider returned no usable content.
	ErrExtractionEmpty = errors.New("extraction: provider returned empty content")

	// ErrInvalidSource rejects URLs that are not plain http or https.
	ErrInvalidSource = errors.New("extraction: source URL must be http or https")

	// ErrSourceTimeout means the source page did not answer in time.
	ErrSourceTimeout = errors.New("extraction: source page request timed out")

	// ErrInsufficientContent means the page text left after sanitizing is
	// too short to describe an event.
	ErrInsufficientContent = errors.New("extraction: page content too short to extract from")

	// ErrConversationBusy rejects a second message while one is still
	// being answered.
	ErrConversationBusy = errors.New("extraction: conversation already has a message in flight")
)
