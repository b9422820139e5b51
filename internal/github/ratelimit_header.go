package github

import (
	"math"
	"net/http"
	"strconv"
	"time"
)

// Rate-limit headers sent with every GitHub API response.
const (
	HeaderRateLimit     = "X-Ratelimit-Limit"
	HeaderRateRemaining = "X-Ratelimit-Remaining"
	HeaderRateReset     = "X-Ratelimit-Reset"
)

// RateLimit is the budget reported by one response.
type RateLimit struct {
	Limit     int
	Remaining int
	// ResetIn is how long until the window resets, relative to the time the
	// headers were parsed. It is negative when the reset is already past.
	ResetIn time.Duration
}

// ParseRateLimit reads the rate-limit headers. All three must be present and
// hold non-negative numbers; otherwise it reports false. The reset header is
// a Unix timestamp in seconds and is converted relative to now.
func ParseRateLimit(h http.Header, now time.Time) (RateLimit, bool) {
	if h == nil {
		return RateLimit{}, false
	}
	limit, err := strconv.Atoi(h.Get(HeaderRateLimit))
	if err != nil || limit < 0 {
		return RateLimit{}, false
	}
	remaining, err := strconv.Atoi(h.Get(HeaderRateRemaining))
	if err != nil || remaining < 0 {
		return RateLimit{}, false
	}
	resetEpoch, err := strconv.ParseFloat(h.Get(HeaderRateReset), 64)
	if err != nil || resetEpoch < 0 || math.IsInf(resetEpoch, 0) || math.IsNaN(resetEpoch) {
		return RateLimit{}, false
	}
	sec, frac := math.Modf(resetEpoch)
	reset := time.Unix(int64(sec), int64(frac*float64(time.Second)))
	return RateLimit{
		Limit:     limit,
		Remaining: remaining,
		ResetIn:   reset.Sub(now),
	}, true
}
