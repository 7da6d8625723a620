// Package settle decides when a file that may still be syncing has stopped
// growing and is safe to read.
package settle

import (
	"context"
	"os"
	"time"
)

const (
	// DefaultSamples is the number of consecutive unchanged size comparisons required.
	DefaultSamples = 3
	// DefaultInterval is the delay between size observations.
	DefaultInterval = 800 * time.Millisecond
)

// Detector polls a file's size until it stops changing.
type Detector struct {
	stat      func(string) (int64, error)
	sleep     func(context.Context, time.Duration) error
	Samples   int
	MaxRounds int
	Interval  time.Duration
}

// NewDetector creates a detector with the given sample count and interval.
// Non-positive values fall back to the defaults.
func NewDetector(samples int, interval time.Duration) *Detector {
	if samples <= 0 {
		samples = DefaultSamples
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Detector{
		Samples:   samples,
		Interval:  interval,
		MaxRounds: samples * 3,
		stat:      statSize,
		sleep:     sleepContext,
	}
}

// IsSettled reports whether the size of path stayed unchanged across Samples
// consecutive intervals, which takes Samples+1 observations, within MaxRounds
// observations. A vanished file, an
// unreadable file, exhausted rounds and a cancelled context all report false.
func (d *Detector) IsSettled(ctx context.Context, path string) bool {
	samples := d.Samples
	if samples <= 0 {
		samples = DefaultSamples
	}
	rounds := d.MaxRounds
	if rounds <= samples {
		rounds = samples * 3
	}
	stat := d.stat
	if stat == nil {
		stat = statSize
	}
	sleep := d.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	last := int64(-1)
	stable := 0
	for round := 0; round < rounds; round++ {
		if round > 0 {
			if err := sleep(ctx, d.Interval); err != nil {
				return false
			}
		}

		size, err := stat(path)
		if err != nil {
			return false
		}

		if size == last {
			stable++
		} else {
			stable = 0
			last = size
		}
		if stable >= samples {
			return true
		}
	}

	return false
}

func statSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
