package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/glowlab/skinsight/internal/domain/images"
	"github.com/glowlab/skinsight/internal/domain/vision"
)

// ErrUnauthorized: no verified caller identity. No record is created.
var ErrUnauthorized = errors.New("analysis: unauthorized")

// ErrInternal covers persistence failures and anything else with no
// user-actionable remedy.
var ErrInternal = errors.New("analysis: internal error")

// RateLimitedError carries the time until the owner's bucket refills.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("analysis: rate limit exceeded, retry in %s", e.RetryAfter.Round(time.Second))
}

// GenericFailureMessage is the user-safe fallback when no category-specific
// remedy exists.
const GenericFailureMessage = "something went wrong, please try again"

// Category is the externally meaningful classification of a failure.
// Internal diagnostic detail stays in the record's error_reason field.
type Category string

const (
	CategoryUnauthorized  Category = "unauthorized"
	CategoryMissingImages Category = "missing_images"
	CategoryRateLimited   Category = "rate_limited"
	CategoryUnavailable   Category = "service_unavailable"
	CategoryInternal      Category = "internal"
)

// Categorize maps any pipeline error onto the external taxonomy plus a
// user-safe message. Raw provider/storage/validator text never reaches the
// message; rate-limit denials include a human-readable retry estimate.
func Categorize(err error) (Category, string) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		secs := int(rl.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		return CategoryRateLimited, fmt.Sprintf("analysis limit reached, please try again in %d seconds", secs)
	}
	var mi *images.MissingImagesError
	if errors.As(err, &mi) {
		return CategoryMissingImages, "all three photos (front, left 45° and right 45°) are required before analysis"
	}
	if errors.Is(err, ErrUnauthorized) {
		return CategoryUnauthorized, "sign in to run an analysis"
	}
	if errors.Is(err, vision.ErrUnavailable) {
		return CategoryUnavailable, "analysis is temporarily unavailable, please try again"
	}
	// SignedAccessFailed, schema violations, malformed output, bad input
	// counts and persistence failures all collapse to the generic message.
	return CategoryInternal, GenericFailureMessage
}
