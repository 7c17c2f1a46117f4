package model

import "time"

// Timestamp is a ledger timestamp: microseconds since the Unix epoch.
type Timestamp int64

// TimestampFromTime converts a wall-clock time to a ledger timestamp.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time converts the timestamp back to a UTC wall-clock time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMicro(int64(ts)).UTC()
}
