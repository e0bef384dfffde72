package format

import (
	"fmt"
	"time"
)

// FmtScore prints a score with one decimal.
func FmtScore(s float64) string {
	return fmt.Sprintf("%.1f", s)
}

// FmtDuration formats a duration as "850ms", "2.4s" or "1m 3s".
func FmtDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	s := int(d.Seconds())
	return fmt.Sprintf("%dm %ds", s/60, s%60)
}

// Mean returns the arithmetic mean of xs, or 0 for none.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
