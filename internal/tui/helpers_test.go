package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pawtrail/internal/walk"
)

func TestFitLinesPadsAndClips(t *testing.T) {
	out := fitLines("ab\ncdef", 4, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ab  " {
		t.Fatalf("expected padded first line, got %q", lines[0])
	}
	if lines[2] != "    " {
		t.Fatalf("expected blank filler line, got %q", lines[2])
	}

	clipped := fitLines("a\nb\nc\nd", 1, 2)
	if strings.Count(clipped, "\n") != 1 {
		t.Fatalf("expected 2 lines after clipping, got %q", clipped)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("hello world", 8); got != "hello..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateLine("short", 10); got != "short" {
		t.Fatalf("short line should pass through, got %q", got)
	}
	if got := truncateLine("abcdef", 2); got != "ab" {
		t.Fatalf("tiny width should hard-cut, got %q", got)
	}
}

func TestTruncateLineMeasuresDisplayWidth(t *testing.T) {
	// Each CJK rune occupies two columns, so a rune-count cut would
	// overflow the column it is fitted into.
	got := truncateLine("散歩に行きましょう", 10)
	if w := runewidth.StringWidth(got); w > 10 {
		t.Fatalf("truncated line still %d columns wide: %q", w, got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}

	// Six columns of CJK fit exactly in width 6, no ellipsis.
	if got := truncateLine("犬の散", 6); got != "犬の散" {
		t.Fatalf("exact-fit wide line should pass through, got %q", got)
	}
}

func TestWrapText(t *testing.T) {
	out := wrapText("the quick brown fox jumps", 10)
	for i, line := range strings.Split(out, "\n") {
		if len(line) > 10 {
			t.Fatalf("line %d too wide: %q", i, line)
		}
	}
	if !strings.Contains(out, "\n") {
		t.Fatal("expected wrapping to produce multiple lines")
	}
}

func TestWrapTextBreaksLongWords(t *testing.T) {
	out := wrapText("abcdefghijkl", 5)
	for i, line := range strings.Split(out, "\n") {
		if len(line) > 5 {
			t.Fatalf("line %d too wide: %q", i, line)
		}
	}
}

func TestBulleted(t *testing.T) {
	out := bulleted([]string{"first cause", "second cause"}, 40)
	if len(out) != 2 {
		t.Fatalf("expected 2 bullet lines, got %d", len(out))
	}
	if !strings.HasPrefix(out[0], "- ") {
		t.Fatalf("expected bullet prefix, got %q", out[0])
	}
}

func TestLiveAvgSpeedMatchesSavedRounding(t *testing.T) {
	snap := walk.Snapshot{Elapsed: 3600, Distance: 5.04}
	if got := liveAvgSpeed(snap); got != 5.0 {
		t.Fatalf("expected 5.0, got %v", got)
	}
	if got := liveAvgSpeed(walk.Snapshot{}); got != 0 {
		t.Fatalf("expected 0 for idle snapshot, got %v", got)
	}
}
