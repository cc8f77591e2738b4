package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

// CopyBlock is the parsed, mode-dependent text for the banner. MARKETING
// fills Title only; HIRING fills all three.
type CopyBlock struct {
	Title       string
	Subtitle    string
	AddressLine string
}

const marketingCopyTemplate = `Create a concise, professional headline for %s centered on "%s."
Guidelines:
- Max 5 words
- Short, punchy, catchy
Output:
HEADLINE: [Headline text]`

const hiringCopyTemplate = `You are a senior copywriter creating text for a premium corporate hiring banner.

INPUTS:
- Company: %s
- Hiring Keyword/Theme: "%s"
- Position/Role: "%s"
- Experience: "%s"
- Openings/Requirements: "%s"
- Location (user-provided): "%s"
- Company Address (fallback): %s

OUTPUT FORMAT (STRICT):
TITLE: [text]
SUBTITLE: [text]
ADDRESS: [text]`

var titleCaser = cases.Title(language.Und)

// titleizeIfLower title-cases only all-lowercase input, leaving deliberate
// casing like "QA Engineer" alone.
func titleizeIfLower(s string) string {
	if s != strings.ToLower(s) {
		return s
	}
	return titleCaser.String(s)
}

// generateCopy runs the mode-specific copy call and parses the labeled
// output. Transport failures are fatal; parse failures never are, they
// synthesize deterministic fallbacks from the raw request fields.
func (p *Pipeline) generateCopy(ctx context.Context, keyword string, mode domain.Mode, hiring domain.HiringFields) (CopyBlock, error) {
	if mode == domain.ModeHiring {
		instruction := fmt.Sprintf(hiringCopyTemplate,
			p.cfg.Company.Name, keyword,
			hiring.Position, hiring.Experience, hiring.Openings, hiring.Location,
			p.cfg.Company.Address,
		)
		raw, err := p.llm.Complete(ctx, instruction, "", 0)
		if err != nil {
			return CopyBlock{}, fmt.Errorf("hiring copy: %w", err)
		}
		return parseHiringCopy(raw, hiring), nil
	}

	instruction := fmt.Sprintf(marketingCopyTemplate, p.cfg.Company.Name, keyword)
	raw, err := p.llm.Complete(ctx, instruction, "", 0)
	if err != nil {
		return CopyBlock{}, fmt.Errorf("marketing copy: %w", err)
	}
	return parseMarketingCopy(raw, keyword), nil
}

// parseMarketingCopy extracts the HEADLINE line; a missing label falls back
// to the raw keyword. Subtitle and address stay empty in this mode.
func parseMarketingCopy(raw, keyword string) CopyBlock {
	title, ok := extractLabeledLine(raw, "HEADLINE:")
	if !ok || title == "" {
		title = keyword
	}
	return CopyBlock{Title: title}
}

// parseHiringCopy extracts TITLE/SUBTITLE/ADDRESS independently; each missing
// label synthesizes its own fallback without blocking the others.
func parseHiringCopy(raw string, hiring domain.HiringFields) CopyBlock {
	var block CopyBlock
	if title, ok := extractLabeledLine(raw, "TITLE:"); ok && title != "" {
		block.Title = title
	} else if pos := strings.TrimSpace(hiring.Position); pos != "" {
		block.Title = titleizeIfLower(pos)
	} else {
		block.Title = "We're Hiring"
	}
	if subtitle, ok := extractLabeledLine(raw, "SUBTITLE:"); ok && subtitle != "" {
		block.Subtitle = subtitle
	} else if exp := strings.TrimSpace(hiring.Experience); exp != "" {
		block.Subtitle = exp + " • Apply Now"
	} else {
		block.Subtitle = "Apply Now"
	}
	if address, ok := extractLabeledLine(raw, "ADDRESS:"); ok && address != "" {
		block.AddressLine = address
	} else if loc := strings.TrimSpace(hiring.Location); loc != "" {
		block.AddressLine = loc
	} else {
		block.AddressLine = "Mehsana, Gujarat"
	}
	return block
}

// extractLabeledLine scans for the first line starting with label (after
// optional whitespace) and returns the trimmed remainder. Prefix matching
// keeps TITLE: from matching the SUBTITLE: line.
func extractLabeledLine(raw, label string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(line), label) {
			return strings.TrimSpace(line[len(label):]), true
		}
	}
	return "", false
}
