package main

import (
	"fmt"
	"io"
	"time"

	"basil/internal/observ"
)

func printTimings(out io.Writer, report *observ.Report, wall time.Duration) {
	if out == nil || report == nil {
		return
	}
	fmt.Fprint(out, report.String())
	fmt.Fprintf(out, "wall %.1f ms\n", toMillis(wall))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// timedTail runs fn and prints timings with the wall clock taken after it
// returns, so the work done in fn is included.
func timedTail(out io.Writer, report *observ.Report, started time.Time, fn func() error) error {
	defer func() { printTimings(out, report, time.Since(started)) }()
	return fn()
}
