package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Progress renders a single status line for a running workload. With a
// known total duration it draws a bar; otherwise it spins.
type Progress struct {
	w      io.Writer
	title  string
	total  time.Duration
	width  int
	frame  int
	frames []string
	mu     sync.Mutex
}

// NewProgress creates a progress line. total may be zero.
func NewProgress(w io.Writer, title string, total time.Duration) *Progress {
	return &Progress{
		w:      w,
		title:  title,
		total:  total,
		width:  30,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Update redraws the line.
func (p *Progress) Update(elapsed time.Duration, ops uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render(elapsed, ops)
}

// Finish draws the final state and ends the line.
func (p *Progress) Finish(elapsed time.Duration, ops uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		elapsed = p.total
	}
	p.render(elapsed, ops)
	fmt.Fprintln(p.w)
}

// Run redraws every interval until ctx is done, reading the running
// operation count from ops.
func (p *Progress) Run(ctx context.Context, interval time.Duration, ops func() uint64) {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Update(time.Since(start), ops())
		}
	}
}

func (p *Progress) render(elapsed time.Duration, ops uint64) {
	rate := 0.0
	if s := elapsed.Seconds(); s > 0 {
		rate = float64(ops) / s
	}
	stats := fmt.Sprintf("%d ops, %s ops/s", ops, FormatCount(rate))

	if p.total <= 0 {
		frame := p.frames[p.frame%len(p.frames)]
		p.frame++
		fmt.Fprintf(p.w, "\r%s %s %s (%s)\033[K", frame, p.title, elapsed.Round(time.Second), stats)
		return
	}

	percent := elapsed.Seconds() / p.total.Seconds()
	if percent > 1 {
		percent = 1
	}
	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%s)\033[K", p.title, bar, percent*100, stats)
}

// FormatCount abbreviates large counts: 1234567 becomes "1.2M".
func FormatCount(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fG", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fk", n/1e3)
	default:
		return fmt.Sprintf("%.0f", n)
	}
}

// FormatBytes formats bytes to human readable string.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
