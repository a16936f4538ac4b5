// Package dsptime converts between C#-style 100ns ticks since
// 0001-01-01 00:00:00 UTC (the timestamp encoding Dyson Sphere Program
// blueprints use) and Go's time.Time.
package dsptime

import "time"

// epoch is 0001-01-01T00:00:00Z, matching .NET's DateTime epoch.
var epoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

const ticksPerSecond = 10_000_000

// ToTime converts C# ticks to a UTC time.Time. Integer division truncates
// toward the epoch, matching the original toolkit's seconds/microseconds
// split.
func ToTime(ticks int64) time.Time {
	seconds := ticks / ticksPerSecond
	residual := ticks % ticksPerSecond
	microseconds := residual / 10
	return time.Unix(epoch.Unix()+seconds, microseconds*int64(time.Microsecond)).UTC()
}

// ToTicks converts a time.Time to C# ticks. Sub-second precision is
// dropped on this forward path, matching the original: only whole
// seconds since the epoch are multiplied back into ticks.
func ToTicks(t time.Time) int64 {
	seconds := t.Unix() - epoch.Unix()
	return seconds * ticksPerSecond
}

// Now returns the current instant as C# ticks.
func Now() int64 {
	return ToTicks(time.Now())
}
