package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeHTML(t *testing.T) {
	markup := `<html><head><style>body { color: red; }</style>
<script>alert("hi");</script></head>
<body><h1>Jazz &amp; Blues Night</h1>
<p>Doors   open at
<b>19:30</b>.</p></body></html>`

	assert.Equal(t, "Jazz & Blues Night Doors open at 19:30 .", SanitizeHTML(markup))
}

func TestFetchPageTextRejectsBadSchemes(t *testing.T) {
	fetcher := NewPageFetcher()

	for _, raw := range []string{"ftp://example.com/x", "file:///etc/passwd", "not a url", "javascript:alert(1)"} {
		_, err := fetcher.FetchPageText(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidSource, raw)
	}
}

func TestFetchPageText(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("Jazz night at the Blue Note on June 20. ", 3) + "</p></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	fetcher := NewPageFetcher()
	text, err := fetcher.FetchPageText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Jazz night at the Blue Note")
	assert.NotContains(t, text, "<p>")
}

func TestFetchPageTextRejectsThinContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	fetcher := NewPageFetcher()
	_, err := fetcher.FetchPageText(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrInsufficientContent)
}

func TestFetchPageTextRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewPageFetcher()
	_, err := fetcher.FetchPageText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
