package service

import (
	"context"
	"time"
)

// every runs fn immediately and then again period after each run returns,
// until ctx is done. A slow run delays the next one instead of overlapping it.
func every(ctx context.Context, period time.Duration, fn func(context.Context)) {
	for {
		if ctx.Err() != nil {
			return
		}
		fn(ctx)

		t := time.NewTimer(period)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
