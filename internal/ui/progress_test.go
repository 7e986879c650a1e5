package ui

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestDots(t *testing.T) {
	var buf bytes.Buffer
	Dots(context.Background(), &buf, 5, 0)
	if got := buf.String(); got != ".....\n" {
		t.Errorf("Dots() wrote %q, want %q", got, ".....\n")
	}
}

func TestDots_timing(t *testing.T) {
	var buf bytes.Buffer
	start := time.Now()
	Dots(context.Background(), &buf, 3, 10*time.Millisecond)
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Dots() returned after %v, want >= 30ms", elapsed)
	}
}

func TestDots_cancelled(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	Dots(ctx, &buf, 5, time.Hour)
	if got := buf.String(); got != ".\n" {
		t.Errorf("Dots() wrote %q, want %q", got, ".\n")
	}
}

func TestPrintBanner_plain(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, false)
	out := buf.String()
	for _, want := range []string{"IMPORTANT NOTICE:", `"dev"`, "folders:", "workspace:*"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("banner missing %q", want)
		}
	}
}
