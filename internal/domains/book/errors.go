package book

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")
)

// IsNotFound reports whether err is the missing-book error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookNotFound)
}
