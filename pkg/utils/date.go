package utils

import (
	"time"
)

// TimeNowUTC is the clock used to stamp snapshots.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// ParseUnixMillis converts an exchange timestamp in milliseconds.
func ParseUnixMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
