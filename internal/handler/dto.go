package handler

import (
	"time"

	"github.com/msomdec/factcheck/internal/domain"
)

// UserDTO is the JSON representation of a user. The password digest and
// the history itself are never exposed here.
type UserDTO struct {
	Username     string `json:"username"`
	HistoryCount int    `json:"historyCount"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

func toUserDTO(u *domain.User) UserDTO {
	dto := UserDTO{
		Username:     u.Username,
		HistoryCount: len(u.History),
	}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// CritiqueDTO is the parsed score header of an analysis.
type CritiqueDTO struct {
	Score        int    `json:"score"`
	ScoreText    string `json:"scoreText"`
	Verdict      string `json:"verdict"`
	Band         string `json:"band"`
	VerdictClass string `json:"verdictClass"`
}

// AnalysisDTO is the JSON representation of a completed analysis.
type AnalysisDTO struct {
	Source   string      `json:"source"`
	Title    string      `json:"title,omitempty"`
	Markdown string      `json:"markdown"`
	Critique CritiqueDTO `json:"critique"`
	Date     string      `json:"date"`
}

func toAnalysisDTO(a *domain.Analysis) AnalysisDTO {
	return AnalysisDTO{
		Source:   a.Source,
		Title:    a.Title,
		Markdown: a.Markdown,
		Critique: CritiqueDTO{
			Score:        a.Critique.Score,
			ScoreText:    a.Critique.ScoreText,
			Verdict:      a.Critique.Verdict,
			Band:         a.Critique.Band,
			VerdictClass: a.Critique.VerdictClass,
		},
		Date: a.Date.Format(domain.HistoryDateLayout),
	}
}

// HistoryEntryDTO is the JSON representation of a history entry.
type HistoryEntryDTO struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Input    string `json:"input"`
	Response string `json:"response"`
}

func toHistoryEntryDTOs(entries []domain.HistoryEntry) []HistoryEntryDTO {
	dtos := make([]HistoryEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = HistoryEntryDTO{
			Date:     e.Date.Format(domain.HistoryDateLayout),
			Type:     e.Type,
			Input:    e.Input,
			Response: e.Response,
		}
	}
	return dtos
}
