// Package extract fetches a web page and reduces it to plain article text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/msomdec/factcheck/internal/domain"
)

const (
	// DefaultTimeout bounds the whole GET, body included.
	DefaultTimeout = 10 * time.Second

	// MinTextLength is the shortest extracted text, in characters, accepted as
	// an article. Shorter output usually means a client-rendered shell or a
	// page that blocked the request.
	MinTextLength = 200

	maxBodyBytes = 5 << 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"
)

// Extractor performs a single GET per call. It does not cache or retry.
type Extractor struct {
	client *http.Client
	text   func(io.Reader) (string, error)
}

// New creates an Extractor whose requests time out after timeout.
// A zero timeout uses DefaultTimeout.
func New(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{client: &http.Client{Timeout: timeout}, text: VisibleText}
}

// Extract fetches rawURL and returns its visible text. Failures wrap
// domain.ErrFetch, domain.ErrInsufficientContent or domain.ErrParse.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (article *domain.Article, err error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL %q", domain.ErrFetch, rawURL)
	}

	body, err := e.fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			article = nil
			err = fmt.Errorf("%w: %v", domain.ErrParse, r)
		}
	}()

	text, err := e.text(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if utf8.RuneCountInString(text) < MinTextLength {
		return nil, fmt.Errorf("%w: the site might be heavily reliant on JavaScript or block scraping", domain.ErrInsufficientContent)
	}

	return &domain.Article{
		URL:   u.String(),
		Title: title(body, u),
		Text:  text,
	}, nil
}

func (e *Extractor) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s for url %s", domain.ErrFetch, resp.Status, u)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFetch, err)
	}
	return body, nil
}

// VisibleText parses r as HTML, drops script and style elements and returns
// the remaining text with one trimmed phrase per line. Phrases are split on
// runs of two spaces, the way layout whitespace usually separates them.
func VisibleText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()

	var chunks []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n"), nil
}

// title is best effort; readability failures are logged and ignored.
func title(body []byte, u *url.URL) string {
	art, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		slog.Debug("readability metadata", "url", u.String(), "error", err)
		return ""
	}
	return strings.TrimSpace(art.Title)
}
