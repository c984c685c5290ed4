package pagination

import "strconv"

// Defaults applied when page/limit are absent or not positive integers.
const (
	DefaultPage  = 1
	DefaultLimit = 3
)

// Params holds a parsed page/limit pair. Page numbering is 1-based.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParseParams parses raw query values into Params. Anything that is not a
// positive integer falls back to the default. No upper bound is enforced on
// limit.
func ParseParams(pageStr, limitStr string) Params {
	return Params{
		Page:  parsePositive(pageStr, DefaultPage),
		Limit: parsePositive(limitStr, DefaultLimit),
	}
}

func parsePositive(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// Paginate returns the window of items for a 1-based page of the given
// limit: positions [(page-1)*limit, page*limit). Past the end it returns an
// empty slice. Callers must pass items in a stable order.
func Paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
