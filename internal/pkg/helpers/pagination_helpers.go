package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultHistoryLimit caps a conversation load when the caller sends no limit.
	DefaultHistoryLimit = 500
	// MaxHistoryLimit is the largest page a client may ask for.
	MaxHistoryLimit = 1000
)

// HistoryParams is the cursor of a conversation load: messages with
// seq > AfterSeq, at most Limit of them.
type HistoryParams struct {
	AfterSeq int64
	Limit    int
}

// ParseHistoryParams extracts after_seq and limit from the query string.
// Invalid or out-of-range values fall back to defaultLimit and a zero cursor.
func ParseHistoryParams(c *gin.Context, defaultLimit int) HistoryParams {
	if defaultLimit <= 0 || defaultLimit > MaxHistoryLimit {
		defaultLimit = DefaultHistoryLimit
	}

	params := HistoryParams{Limit: defaultLimit}

	if raw := c.Query("after_seq"); raw != "" {
		if afterSeq, err := strconv.ParseInt(raw, 10, 64); err == nil && afterSeq > 0 {
			params.AfterSeq = afterSeq
		}
	}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= MaxHistoryLimit {
			params.Limit = limit
		}
	}

	return params
}

// ClampLimit bounds a store limit to (0, MaxHistoryLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
