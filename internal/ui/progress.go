package ui

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Default dot indicator: five dots over two seconds.
const (
	DotSteps    = 5
	DotInterval = 400 * time.Millisecond
)

// Dots prints one dot per interval, steps times, followed by a newline.
// It returns early, still ending the line, if ctx is cancelled.
func Dots(ctx context.Context, out io.Writer, steps int, interval time.Duration) {
	defer func() { _, _ = fmt.Fprintln(out) }()

	for i := 0; i < steps; i++ {
		_, _ = fmt.Fprint(out, ".")
		if interval <= 0 {
			continue
		}
		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
