package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/templui/shelf/internal/model"
)

const (
	MaxReviewLength  = 10000
	MaxCommentLength = 2000
	MaxBioLength     = 500
	MaxListName      = 100
)

var (
	ErrTextRequired = errors.New("text is required")
	ErrScoreFormat  = errors.New("score must be a whole number")
	ErrScoreRange   = errors.New("score must be between 1 and 10")
)

// CleanText trims user text and enforces maxLen runes. Text that is empty
// once trimmed is rejected. Markup is kept as typed and escaped on output.
func CleanText(s string, maxLen int) (string, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return "", ErrTextRequired
	}
	if maxLen > 0 && utf8.RuneCountInString(cleaned) > maxLen {
		return "", fmt.Errorf("text must not exceed %d characters", maxLen)
	}
	return cleaned, nil
}

// ParseScore reads a score from raw form input.
func ParseScore(raw string) (int, error) {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrScoreFormat
	}
	return score, ValidateScore(score)
}

func ValidateScore(score int) error {
	if score < model.MinScore || score > model.MaxScore {
		return ErrScoreRange
	}
	return nil
}
