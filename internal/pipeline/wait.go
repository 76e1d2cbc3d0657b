package pipeline

import (
	"context"
	"time"

	"convertd/internal/common/fsutil"
)

// Defaults for the converted-file poll.
const (
	DefaultWaitInterval = 1 * time.Second
	DefaultWaitCeiling  = 30 * time.Second
)

// Waiter polls the host filesystem until a file appears. The convert command
// can exit before its output is visible through the host's volume mount.
type Waiter struct {
	Interval time.Duration
	Ceiling  time.Duration

	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
	Exists func(path string) bool
}

// NewWaiter returns a Waiter on the real clock and filesystem. Zero durations
// take the defaults.
func NewWaiter(interval, ceiling time.Duration) Waiter {
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	if ceiling <= 0 {
		ceiling = DefaultWaitCeiling
	}
	return Waiter{
		Interval: interval,
		Ceiling:  ceiling,
		Now:      time.Now,
		Sleep:    sleepCtx,
		Exists:   fsutil.PathExists,
	}
}

// WaitForFile returns nil as soon as path exists, without sleeping if it
// already does. After Ceiling has elapsed it returns a *TimeoutError.
func (w Waiter) WaitForFile(ctx context.Context, path string) error {
	start := w.Now()
	for !w.Exists(path) {
		if w.Now().Sub(start) > w.Ceiling {
			return &TimeoutError{Path: path, After: w.Ceiling}
		}
		if err := w.Sleep(ctx, w.Interval); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
