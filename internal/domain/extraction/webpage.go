package extraction

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	pageFetchTimeout = 10 * time.Second
	minContentLength = 50
	maxPageBytes     = 2 << 20
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleBlockPattern  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagPattern         = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// PageFetcher downloads and sanitizes web pages for text extraction.
type PageFetcher struct {
	client *http.Client
}

func NewPageFetcher() *PageFetcher {
	return &PageFetcher{
		client: &http.Client{Timeout: pageFetchTimeout},
	}
}

// FetchPageText downloads the page and reduces it to plain text. The
// text must end up long enough to plausibly describe an event.
func (f *PageFetcher) FetchPageText(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", ErrInvalidSource
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build page request: %w", err)
	}
	req.Header.Set("User-Agent", "event-sorter/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		if isFetchTimeout(err) {
			return "", ErrSourceTimeout
		}
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		if isFetchTimeout(err) {
			return "", ErrSourceTimeout
		}
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	text := SanitizeHTML(string(body))
	if len(text) < minContentLength {
		return "", ErrInsufficientContent
	}
	return text, nil
}

// SanitizeHTML reduces markup to readable text: script and style blocks
// go first, then remaining tags, then entities and whitespace runs.
func SanitizeHTML(markup string) string {
	text := scriptBlockPattern.ReplaceAllString(markup, " ")
	text = styleBlockPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func isFetchTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
