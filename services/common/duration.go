package common

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration token")

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var durationUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseDuration converts compact duration tokens like "10s", "5m", "2h" or
// "1d" to a time.Duration. Anything else is rejected with
// ErrInvalidDuration, including a zero amount and amounts large enough to
// overflow the multiplication.
func ParseDuration(token string) (time.Duration, error) {
	match := durationPattern.FindStringSubmatch(strings.ToLower(token))
	if match == nil {
		return 0, ErrInvalidDuration
	}

	amount, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidDuration
	}

	unit := durationUnits[match[2]]
	if amount > math.MaxInt64/int64(unit) {
		return 0, ErrInvalidDuration
	}
	return time.Duration(amount) * unit, nil
}
