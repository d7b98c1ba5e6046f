package domain

import "time"

// Article is the plain-text approximation of a fetched web page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// GenerationFallbackMessage is shown to users when the model could not be reached.
const GenerationFallbackMessage = "Sorry, I couldn't generate a response at this moment. Please try again later."

// Score bands used to colour the credibility score.
const (
	BandReliable = "reliable"
	BandWarning  = "warning"
	BandDanger   = "danger"
	BandUnknown  = "unknown"
)

// Verdict classes.
const (
	VerdictReliable   = "reliable"
	VerdictMisleading = "misleading"
	VerdictFalse      = "false"
	VerdictOpinion    = "opinion"
)

// Critique holds the structured header fields parsed out of a model response.
// It is derived on demand and never persisted.
type Critique struct {
	Score        int // 0 when the score line is missing or unparsable
	ScoreText    string
	Verdict      string
	Band         string
	VerdictClass string
}

// HasHeader reports whether both the score and verdict lines were found.
func (c Critique) HasHeader() bool {
	return c.ScoreText != "" && c.Verdict != ""
}

// Analysis is the outcome of one completed analysis request.
type Analysis struct {
	Source   string
	Title    string
	Markdown string
	Critique Critique
	Date     time.Time
}
