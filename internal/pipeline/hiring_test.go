package pipeline

import (
	"strings"
	"testing"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

func TestFormatHiringDetailsAllFields(t *testing.T) {
	out := FormatHiringDetails(domain.HiringFields{
		Position:   "Backend Engineer",
		Experience: "3+ years",
		Openings:   "2",
		Location:   "Mehsana",
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), out)
	}
	want := []string{
		"- Position: Backend Engineer",
		"- Experience: 3+ years",
		"- Openings: 2",
		"- Location: Mehsana",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestFormatHiringDetailsSkipsEmptyFields(t *testing.T) {
	out := FormatHiringDetails(domain.HiringFields{Position: "Designer", Location: " Surat "})
	if out != "- Position: Designer\n- Location: Surat" {
		t.Fatalf("out = %q", out)
	}
}

func TestFormatHiringDetailsAllEmpty(t *testing.T) {
	if out := FormatHiringDetails(domain.HiringFields{}); out != "N/A" {
		t.Fatalf("out = %q, want N/A", out)
	}
}
