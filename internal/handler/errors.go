package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/factcheck/internal/domain"
)

// analysisError maps an analysis failure to a status code and a message
// fit for the user.
func analysisError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "Please enter a URL or paste the article text."
	case errors.Is(err, domain.ErrInsufficientContent):
		return http.StatusUnprocessableEntity, "Could not extract enough text from the URL. Please try a different URL or paste the text directly."
	case errors.Is(err, domain.ErrFetch):
		return http.StatusUnprocessableEntity, "Could not fetch the URL. Please try a different URL or paste the text directly."
	case errors.Is(err, domain.ErrParse):
		return http.StatusUnprocessableEntity, "Could not read the page. Please try a different URL or paste the text directly."
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many analyses. Please wait a minute and try again."
	case errors.Is(err, domain.ErrGenerationTimeout):
		return http.StatusGatewayTimeout, domain.GenerationFallbackMessage
	case errors.Is(err, domain.ErrGeneration):
		return http.StatusBadGateway, domain.GenerationFallbackMessage
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusUnauthorized, "Your account could not be found. Please log in again."
	default:
		slog.Error("analyze article", "error", err)
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
	}
}
