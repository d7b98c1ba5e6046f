package service

import (
	"strconv"
	"strings"

	"github.com/msomdec/factcheck/internal/domain"
)

const (
	scoreLabel   = "Credibility Score:"
	verdictLabel = "Verdict:"
)

// ParseCritique pulls the credibility score and verdict out of a model
// response. Only the first line carrying each label is used; anything
// missing leaves the corresponding fields empty.
func ParseCritique(markdown string) domain.Critique {
	var c domain.Critique
	for _, line := range strings.Split(markdown, "\n") {
		if c.ScoreText == "" {
			if v, ok := labelValue(line, scoreLabel); ok {
				c.ScoreText = v
			}
		}
		if c.Verdict == "" {
			if v, ok := labelValue(line, verdictLabel); ok {
				c.Verdict = v
			}
		}
	}

	c.Score = parseScore(c.ScoreText)
	c.Band = scoreBand(c.Score)
	if c.Verdict != "" {
		c.VerdictClass = verdictClass(c.Verdict)
	}
	return c
}

// labelValue returns the text after label on line with Markdown emphasis,
// brackets and quotes stripped.
func labelValue(line, label string) (string, bool) {
	i := strings.Index(line, label)
	if i < 0 {
		return "", false
	}
	v := strings.Trim(line[i+len(label):], " \t*_[]'\"")
	v = strings.TrimSuffix(v, ".")
	if v == "" {
		return "", false
	}
	return v, true
}

// parseScore reads the leading integer of "8", "8/10" or "8 out of 10".
// Values outside 1..10 yield 0.
func parseScore(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 || n > 10 {
		return 0
	}
	return n
}

func scoreBand(score int) string {
	switch {
	case score >= 7:
		return domain.BandReliable
	case score >= 4:
		return domain.BandWarning
	case score >= 1:
		return domain.BandDanger
	default:
		return domain.BandUnknown
	}
}

func verdictClass(verdict string) string {
	switch {
	case strings.Contains(verdict, "Misleading"):
		return domain.VerdictMisleading
	case strings.Contains(verdict, "False"):
		return domain.VerdictFalse
	case strings.Contains(verdict, "Opinion"), strings.Contains(verdict, "Satire"):
		return domain.VerdictOpinion
	default:
		return domain.VerdictReliable
	}
}
