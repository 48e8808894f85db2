package output

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewProgress(t *testing.T) {
	p := NewProgress(&bytes.Buffer{}, "run", 10*time.Second)
	if p.title != "run" {
		t.Errorf("title = %q, want %q", p.title, "run")
	}
	if p.total != 10*time.Second {
		t.Errorf("total = %v, want 10s", p.total)
	}
}

func TestProgress_UpdateBar(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(buf, "run", 10*time.Second)

	p.Update(5*time.Second, 5000)

	out := buf.String()
	if !strings.Contains(out, "run") {
		t.Error("output should contain title")
	}
	if !strings.Contains(out, " 50%") {
		t.Errorf("output should contain percentage, got %q", out)
	}
	if !strings.Contains(out, "5000 ops, 1.0k ops/s") {
		t.Errorf("output should contain stats, got %q", out)
	}
}

func TestProgress_UpdateSpinner(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(buf, "run", 0)

	p.Update(3*time.Second, 30)
	p.Update(4*time.Second, 40)

	out := buf.String()
	if !strings.Contains(out, "⠋ run 3s") || !strings.Contains(out, "⠙ run 4s") {
		t.Errorf("spinner frames not advancing, got %q", out)
	}
}

func TestProgress_Overflow(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(buf, "run", time.Second)

	p.Update(3*time.Second, 1)
	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("percentage should cap at 100%%, got %q", buf.String())
	}
}

func TestProgress_Finish(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(buf, "run", 2*time.Second)

	p.Finish(1900*time.Millisecond, 100)

	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish should end the line")
	}
	if !strings.Contains(out, "100%") {
		t.Errorf("Finish should show completion, got %q", out)
	}
}

func TestProgress_Run(t *testing.T) {
	buf := &syncBuffer{}
	p := NewProgress(buf, "run", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	p.Run(ctx, 10*time.Millisecond, func() uint64 { return 7 })

	if !strings.Contains(buf.String(), "7 ops") {
		t.Errorf("Run should draw updates, got %q", buf.String())
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5k"},
		{2500000, "2.5M"},
		{3e9, "3.0G"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
