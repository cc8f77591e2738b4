package pipeline

import (
	"testing"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

func TestParseMarketingCopyExtractsHeadline(t *testing.T) {
	block := parseMarketingCopy("HEADLINE: Build Faster\n", "cloud migration")
	if block.Title != "Build Faster" {
		t.Fatalf("Title = %q, want Build Faster", block.Title)
	}
	if block.Subtitle != "" || block.AddressLine != "" {
		t.Fatal("marketing copy must leave subtitle and address empty")
	}
}

func TestParseMarketingCopyFallsBackToKeyword(t *testing.T) {
	block := parseMarketingCopy("Here is a great headline for you.", "cloud migration")
	if block.Title != "cloud migration" {
		t.Fatalf("Title = %q, want keyword fallback", block.Title)
	}
}

func TestParseHiringCopyExtractsAllLabels(t *testing.T) {
	raw := "TITLE: Backend Engineers Wanted\nSUBTITLE: 3+ years of Go\nADDRESS: Mehsana, Gujarat\n"
	block := parseHiringCopy(raw, domain.HiringFields{})
	if block.Title != "Backend Engineers Wanted" {
		t.Fatalf("Title = %q", block.Title)
	}
	if block.Subtitle != "3+ years of Go" {
		t.Fatalf("Subtitle = %q", block.Subtitle)
	}
	if block.AddressLine != "Mehsana, Gujarat" {
		t.Fatalf("AddressLine = %q", block.AddressLine)
	}
}

func TestParseHiringCopyTitleDoesNotMatchSubtitleLine(t *testing.T) {
	raw := "SUBTITLE: only a subtitle here\n"
	block := parseHiringCopy(raw, domain.HiringFields{Position: "backend engineer"})
	if block.Title != "Backend Engineer" {
		t.Fatalf("Title = %q, want title-cased position fallback", block.Title)
	}
	if block.Subtitle != "only a subtitle here" {
		t.Fatalf("Subtitle = %q", block.Subtitle)
	}
}

func TestParseHiringCopyPerFieldFallbacks(t *testing.T) {
	hiring := domain.HiringFields{
		Position:   "QA Engineer",
		Experience: "2+ years",
		Location:   "Ahmedabad",
	}
	block := parseHiringCopy("nothing labeled at all", hiring)
	if block.Title != "QA Engineer" {
		t.Fatalf("Title = %q, want position preserved as given", block.Title)
	}
	if block.Subtitle != "2+ years • Apply Now" {
		t.Fatalf("Subtitle = %q", block.Subtitle)
	}
	if block.AddressLine != "Ahmedabad" {
		t.Fatalf("AddressLine = %q", block.AddressLine)
	}
}

func TestParseHiringCopyEmptyInputsUseGenericFallbacks(t *testing.T) {
	block := parseHiringCopy("", domain.HiringFields{})
	if block.Title != "We're Hiring" {
		t.Fatalf("Title = %q, want We're Hiring", block.Title)
	}
	if block.Subtitle != "Apply Now" {
		t.Fatalf("Subtitle = %q, want Apply Now", block.Subtitle)
	}
	if block.AddressLine != "Mehsana, Gujarat" {
		t.Fatalf("AddressLine = %q, want company city fallback", block.AddressLine)
	}
}
