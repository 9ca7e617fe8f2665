package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Bar is a simple terminal progress bar for the pack read phase. It is
// written from a single goroutine; the total may be set after creation once
// the directory walk has counted the files.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	lastUpdate time.Time
}

func New(total int64) *Bar {
	return &Bar{
		total:      total,
		width:      50,
		writer:     os.Stdout,
		lastUpdate: time.Now(),
	}
}

func (b *Bar) SetTotal(total int64) {
	b.total = total
}

func (b *Bar) Increment() {
	b.current++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	percent := float64(b.current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(b.current) / float64(b.total))
	if filledWidth > b.width {
		filledWidth = b.width
	}

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d)", bar, int(percent), b.current, b.total)
}

func (b *Bar) Finish() {
	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
