package extract

import "io"

// SetTextFunc replaces the HTML-to-text step.
func (e *Extractor) SetTextFunc(fn func(io.Reader) (string, error)) {
	e.text = fn
}
