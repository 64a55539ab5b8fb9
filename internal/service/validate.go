package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkordes/meetpoint/internal/domain"
)

const (
	maxTitleLength    = 100
	maxNicknameLength = 63
)

// validateTitle enforces a non-blank title of bounded length.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLength)
	}
	return nil
}

// validateNickname enforces the nickname rules applied when joining a meeting.
func validateNickname(nickname string) error {
	if nickname == "" {
		return fmt.Errorf("%w: nickname is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		return fmt.Errorf("%w: nickname must be at most %d characters", domain.ErrValidation, maxNicknameLength)
	}
	return nil
}

// validateCoordinate rejects latitudes outside [-90, 90] and longitudes
// outside [-180, 180], including NaN.
func validateCoordinate(lat, lng float64) error {
	if !(lat >= -90 && lat <= 90) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if !(lng >= -180 && lng <= 180) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}
