package view

import (
	"strconv"

	"github.com/msomdec/factcheck/internal/domain"
)

// Element IDs patched by the streaming endpoint.
const (
	StatusID = "analysis-status"
	ResultID = "analysis-result"
)

// sourcePreviewLen caps how much of an entry's input is shown in the list.
const sourcePreviewLen = 100

// AnalyzeForm holds the values echoed back into the analyze form.
type AnalyzeForm struct {
	Mode string // "url" or "text"
	URL  string
	Text string
}

// Truncate shortens s to n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func scoreLabel(c domain.Critique) string {
	if c.Score == 0 {
		return "?/10"
	}
	return strconv.Itoa(c.Score) + "/10"
}
