package event

import "time"

// Timestamp is a creation time in Unix seconds, as carried on the wire.
type Timestamp int64

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp(time.Now().Unix())
}

// Time converts to a time.Time in the local zone.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0)
}
