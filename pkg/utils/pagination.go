package utils

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParsePagination normalizes raw limit/offset query values
func ParsePagination(limitStr, offsetStr string) (limit, offset int) {
	limit = DefaultLimit
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if v, err := strconv.Atoi(offsetStr); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
