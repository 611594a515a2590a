package service

import "strconv"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// parseSeqRef interprets a path segment as a sequential id. A purely numeric
// segment addresses the sequential id; anything else is an opaque id.
func parseSeqRef(ref string) (int64, bool) {
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
