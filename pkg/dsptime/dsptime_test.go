package dsptime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToTimeEpoch(t *testing.T) {
	got := ToTime(0)
	want := time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestToTimeRoundTripWholeSeconds(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC)
	ticks := ToTicks(ref)
	got := ToTime(ticks)
	assert.True(t, got.Equal(ref), "got %v, want %v", got, ref)
}

func TestToTicksDropsSubSecondPrecision(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 13, 45, 30, 500_000_000, time.UTC)
	ticks := ToTicks(ref)
	want := ToTicks(ref.Truncate(time.Second))
	assert.Equal(t, want, ticks)
}

func TestToTimePreservesSubSecondResidualOnTicks(t *testing.T) {
	// A raw tick value that wasn't produced by ToTicks (e.g. parsed from
	// an envelope written by the game) can carry sub-second precision;
	// ToTime must not truncate that away.
	ticks := int64(5_000_000) // 0.5 seconds past the epoch
	got := ToTime(ticks)
	want := epoch.Add(500 * time.Millisecond)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestNowIsCloseToWallClock(t *testing.T) {
	before := ToTicks(time.Now())
	ticks := Now()
	after := ToTicks(time.Now().Add(2 * time.Second))
	assert.GreaterOrEqual(t, ticks, before)
	assert.LessOrEqual(t, ticks, after)
}
