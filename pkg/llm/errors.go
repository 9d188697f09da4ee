package llm

import (
	"errors"
	"fmt"

	"cubie-assistant/pkg/errs"
)

// TransportError wraps a provider failure into the assistant's taxonomy.
// Overload keeps its own user-facing wording.
func TransportError(op string, err error) error {
	if errors.Is(err, ErrRateLimited) {
		return errs.Transport(op, fmt.Errorf("%w: %w", errs.ErrOverloaded, err))
	}
	return errs.Transport(op, err)
}

// Transient reports whether a provider error is worth one more attempt.
// Overload is not: the providers already walked their fallback models.
func Transient(err error) bool {
	return err != nil && !errors.Is(err, ErrRateLimited)
}
