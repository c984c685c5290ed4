package response

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ViolationsFrom extracts field-level violations from a validation error.
// The second return is false when err is not a validation failure.
func ViolationsFrom(err error) ([]Violation, bool) {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return nil, false
	}

	violations := make([]Violation, 0, len(ve))
	for field, fieldErr := range ve {
		violations = append(violations, Violation{
			Field:   field,
			Message: fieldErr.Error(),
		})
	}

	// Map iteration order is random; keep the list deterministic.
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Field < violations[j].Field
	})

	return violations, true
}
