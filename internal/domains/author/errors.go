package author

import "errors"

var (
	ErrAuthorNotFound = errors.New("author not found")
)

// IsNotFound reports whether err is the missing-author error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAuthorNotFound)
}
