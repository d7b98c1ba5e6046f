package view

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md renders model output. Raw HTML in the source is dropped since
// goldmark is not configured with html.WithUnsafe.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown converts src to HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown renders src as HTML, falling back to an escaped <pre> block.
func Markdown(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := RenderMarkdown(src)
		if err != nil {
			_, err = io.WriteString(w, `<pre class="raw">`+templ.EscapeString(src)+`</pre>`)
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	})
}
