package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/factcheck/internal/domain"
)

// Extractor turns a URL into article text.
type Extractor interface {
	Extract(ctx context.Context, url string) (*domain.Article, error)
}

// Analyzer turns article text into a Markdown critique.
type Analyzer interface {
	Analyze(ctx context.Context, articleText string) (string, error)
}

// AnalysisService runs extract, analyze and record as one sequential chain.
type AnalysisService struct {
	extractor Extractor
	analyzer  Analyzer
	history   *HistoryService
	limiter   *TokenBucket
}

// NewAnalysisService creates an AnalysisService. A nil limiter disables throttling.
func NewAnalysisService(extractor Extractor, analyzer Analyzer, history *HistoryService, limiter *TokenBucket) *AnalysisService {
	return &AnalysisService{
		extractor: extractor,
		analyzer:  analyzer,
		history:   history,
		limiter:   limiter,
	}
}

// FetchArticle extracts the article at rawURL.
func (s *AnalysisService) FetchArticle(ctx context.Context, rawURL string) (*domain.Article, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: a URL is required", domain.ErrInvalidInput)
	}
	article, err := s.extractor.Extract(ctx, rawURL)
	if err != nil {
		if domain.IsExtractionError(err) {
			slog.Info("article extraction failed", "url", rawURL, "error", err)
		} else {
			slog.Error("extract article", "url", rawURL, "error", err)
		}
		return nil, err
	}
	return article, nil
}

// Analyze sends text to the model and, on success, records the critique in
// username's history under source. Failed generations are not recorded.
func (s *AnalysisService) Analyze(ctx context.Context, username, source, title, text string) (*domain.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: article text is required", domain.ErrInvalidInput)
	}
	if !s.limiter.Allow(username) {
		return nil, domain.ErrRateLimited
	}

	markdown, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrGeneration) || errors.Is(err, domain.ErrGenerationTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	entry, err := s.history.Record(ctx, username, domain.KindNewsAnalysis, source, markdown)
	if err != nil {
		return nil, err
	}

	return &domain.Analysis{
		Source:   source,
		Title:    title,
		Markdown: markdown,
		Critique: ParseCritique(markdown),
		Date:     entry.Date,
	}, nil
}

// AnalyzeURL fetches rawURL and analyzes the extracted text.
func (s *AnalysisService) AnalyzeURL(ctx context.Context, username, rawURL string) (*domain.Analysis, error) {
	article, err := s.FetchArticle(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, username, strings.TrimSpace(rawURL), article.Title, article.Text)
}

// AnalyzeText analyzes pasted article text.
func (s *AnalysisService) AnalyzeText(ctx context.Context, username, text string) (*domain.Analysis, error) {
	return s.Analyze(ctx, username, domain.SourcePastedText, "", text)
}
