package imagegen

import (
	"errors"
	"fmt"
)

// Generation failure categories, surfaced to the user as descriptive
// messages.
var (
	// ErrInvalidCredential is returned when the API key is missing, malformed
	// or revoked.
	ErrInvalidCredential = errors.New("image generation credential is invalid or missing")

	// ErrSafetyBlocked is returned when the prompt was rejected by the
	// provider's content policy.
	ErrSafetyBlocked = errors.New("prompt was blocked by the content safety filter")

	// ErrQuotaExceeded is returned when the account has run out of quota or
	// is being rate limited.
	ErrQuotaExceeded = errors.New("image generation quota exceeded")

	// ErrNetwork is returned for transport-level failures reaching the
	// provider.
	ErrNetwork = errors.New("could not reach the image generation service")

	// ErrUnknown is returned for failures that fit no other category.
	ErrUnknown = errors.New("image generation failed")
)

// GenError carries the failed operation alongside the categorized cause.
type GenError struct {
	Op      string
	Err     error
	Details string
}

func (e *GenError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("imagegen: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("imagegen: %s failed: %v", e.Op, e.Err)
}

func (e *GenError) Unwrap() error {
	return e.Err
}

func (e *GenError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func wrapGenError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var genErr *GenError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenError{Op: op, Err: err, Details: details}
}
