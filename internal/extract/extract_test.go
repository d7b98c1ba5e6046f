package extract_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/factcheck/internal/domain"
	"github.com/msomdec/factcheck/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paragraph = strings.Repeat("The city council approved the new transit budget after a long debate. ", 4)

func articlePage(body string) string {
	return fmt.Sprintf(`<!doctype html>
<html>
<head>
  <title>Council approves budget</title>
  <style>body { color: red; } .secret-style { display: none; }</style>
  <script>var trackingSecret = "do-not-leak";</script>
</head>
<body>
  <article>
    <h1>Council approves budget</h1>
    <p>%s</p>
    <script type="text/javascript">console.log("inline script");</script>
    <p>Officials   said   the   plan takes effect next year.</p>
  </article>
</body>
</html>`, body)
}

func serve(t *testing.T, status int, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtract_StripsScriptAndStyle(t *testing.T) {
	srv := serve(t, http.StatusOK, articlePage(paragraph))

	article, err := extract.New(0).Extract(context.Background(), srv.URL+"/news")
	require.NoError(t, err)

	assert.Contains(t, article.Text, "The city council approved the new transit budget")
	assert.Contains(t, article.Text, "Council approves budget")
	assert.NotContains(t, article.Text, "do-not-leak")
	assert.NotContains(t, article.Text, "inline script")
	assert.NotContains(t, article.Text, "secret-style")
	assert.Equal(t, srv.URL+"/news", article.URL)
}

func TestExtract_SplitsPhrasesAndDropsBlankLines(t *testing.T) {
	srv := serve(t, http.StatusOK, articlePage(paragraph))

	article, err := extract.New(0).Extract(context.Background(), srv.URL)
	require.NoError(t, err)

	lines := strings.Split(article.Text, "\n")
	for _, line := range lines {
		assert.NotEmpty(t, line)
		assert.Equal(t, strings.TrimSpace(line), line)
	}
	assert.Contains(t, lines, "Officials")
	assert.Contains(t, lines, "the")
}

func TestExtract_InsufficientContent(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusAccepted} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := serve(t, status, `<html><body><div id="root"></div><script>render()</script><p>Loading...</p></body></html>`)

			_, err := extract.New(0).Extract(context.Background(), srv.URL)
			require.ErrorIs(t, err, domain.ErrInsufficientContent)
		})
	}
}

func TestExtract_NonSuccessStatus(t *testing.T) {
	srv := serve(t, http.StatusForbidden, articlePage(paragraph))

	_, err := extract.New(0).Extract(context.Background(), srv.URL)
	require.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "403")
}

func TestExtract_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/file", "http://"} {
		_, err := extract.New(0).Extract(context.Background(), raw)
		require.ErrorIs(t, err, domain.ErrFetch, raw)
	}
}

func TestExtract_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := extract.New(50 * time.Millisecond).Extract(context.Background(), srv.URL)
	require.ErrorIs(t, err, domain.ErrFetch)
}

func TestVisibleText(t *testing.T) {
	text, err := extract.VisibleText(strings.NewReader(
		"<html><head><style>p{}</style></head><body>\n  <p>Hello  world</p>\n\n<script>x()</script><p>Bye</p></body></html>",
	))
	require.NoError(t, err)
	assert.Equal(t, "Hello\nworld\nBye", text)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestVisibleText_ReaderError(t *testing.T) {
	_, err := extract.VisibleText(failingReader{})
	require.Error(t, err)
}

func TestExtract_ParseError(t *testing.T) {
	srv := serve(t, http.StatusOK, articlePage(paragraph))

	e := extract.New(time.Second)
	e.SetTextFunc(func(io.Reader) (string, error) {
		return "", errors.New("malformed document")
	})

	article, err := e.Extract(context.Background(), srv.URL)
	require.ErrorIs(t, err, domain.ErrParse)
	assert.Nil(t, article)
	assert.True(t, domain.IsExtractionError(err))
}

func TestExtract_ParsePanicRecovered(t *testing.T) {
	srv := serve(t, http.StatusOK, articlePage(paragraph))

	e := extract.New(time.Second)
	e.SetTextFunc(func(io.Reader) (string, error) {
		panic("unexpected node")
	})

	var (
		article *domain.Article
		err     error
	)
	require.NotPanics(t, func() {
		article, err = e.Extract(context.Background(), srv.URL)
	})
	require.ErrorIs(t, err, domain.ErrParse)
	assert.Nil(t, article)
}
