package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateLimited        = errors.New("too many analyses, slow down")

	// Extraction failures. All are user-correctable.
	ErrFetch               = errors.New("failed to fetch the article")
	ErrInsufficientContent = errors.New("could not extract enough meaningful text from the URL")
	ErrParse               = errors.New("failed to parse the article")

	// Generation failures.
	ErrGeneration        = errors.New("generation failed")
	ErrGenerationTimeout = errors.New("generation timed out")
)

// IsExtractionError reports whether err is one of the article extraction failures.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrFetch) || errors.Is(err, ErrInsufficientContent) || errors.Is(err, ErrParse)
}
