// Package progress renders a per-file progress bar for batch runs.
// Output goes to stderr so stdout stays clean for reports and JSON.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Bar renders an ASCII progress bar.
type Bar struct {
	Total   int
	Current int
	Label   string
	Width   int
	Enabled bool
	Out     io.Writer

	mu sync.Mutex
}

// New creates a progress bar on stderr.
// Disabled when stderr is not a TTY, when --json is set, or with
// ANSWERKIT_NO_PROGRESS=1.
func New(label string, total int) *Bar {
	return &Bar{
		Total:   total,
		Label:   label,
		Width:   30,
		Enabled: shouldEnable(),
		Out:     os.Stderr,
	}
}

// Increment advances the bar by one file and redraws it with status.
func (b *Bar) Increment(status string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Current++
	if b.Current > b.Total {
		b.Current = b.Total
	}
	b.render(status)
}

// Finish clears the bar and prints a summary line.
func (b *Bar) Finish(summary string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.Enabled {
		return
	}
	fmt.Fprintf(b.out(), "\r\033[K✓ %s\n", summary)
}

// Pct returns the completed share in percent.
func (b *Bar) Pct() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Total == 0 {
		return 0
	}
	return float64(b.Current) / float64(b.Total) * 100
}

func (b *Bar) render(status string) {
	if !b.Enabled {
		return
	}

	pct := 0.0
	if b.Total > 0 {
		pct = float64(b.Current) / float64(b.Total)
	}
	filled := int(pct * float64(b.Width))
	if filled > b.Width {
		filled = b.Width
	}

	bar := strings.Repeat("=", filled) + strings.Repeat(" ", b.Width-filled)
	fmt.Fprintf(b.out(), "\r\033[K%s [%s] %d/%d  %s", b.Label, bar, b.Current, b.Total, status)
}

func (b *Bar) out() io.Writer {
	if b.Out == nil {
		return os.Stderr
	}
	return b.Out
}

func shouldEnable() bool {
	if os.Getenv("ANSWERKIT_NO_PROGRESS") == "1" {
		return false
	}
	if os.Getenv("ANSWERKIT_JSON") == "true" {
		return false
	}
	stat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
