package pipeline

import (
	"context"
	"strings"
)

const (
	defaultPrimaryHex   = "#0055FF"
	defaultSecondaryHex = "#555555"

	identityFallback = "Character description not available."

	colorMaxTokens    = 50
	identityMaxTokens = 220
)

const colorInstruction = `Analyze this logo image strictly for Graphic Design purposes.
Task 1: Identify the **PRIMARY Brand Color** (main color of text/icon).
Task 2: Identify a **SECONDARY/ACCENT Color**.
OUTPUT FORMAT: Return ONLY two HEX codes separated by a comma.`

const identityInstruction = `Analyze this character image and provide an IDENTITY-LOCK description that helps recreate the SAME person consistently.
Focus ONLY on stable identity traits: face shape, hairstyle, beard/moustache shape, skin tone, eyebrows/eyes, nose, lips, body proportions, clothing basics.
Avoid mentioning photographic terms (studio lighting, bokeh, camera lens, HDR, ultra-realistic, cinematic).
Write 6-10 bullet points. No JSON.`

// extractBrandColors asks the model for two hex codes from the logo. Always
// returns exactly two entries; any failure degrades to the fixed default pair.
func (p *Pipeline) extractBrandColors(ctx context.Context, logoURL string) (string, string) {
	text, err := p.llm.Complete(ctx, colorInstruction, logoURL, colorMaxTokens)
	if err != nil {
		p.logger.Warn().Err(err).Msg("pipeline: brand color extraction failed, using defaults")
		return defaultPrimaryHex, defaultSecondaryHex
	}
	colors := parseHexList(text)
	switch len(colors) {
	case 0:
		return defaultPrimaryHex, defaultSecondaryHex
	case 1:
		return colors[0], defaultSecondaryHex
	default:
		return colors[0], colors[1]
	}
}

// extractIdentity asks the model for an identity-lock description of the
// character. Degrades to a fixed placeholder on any failure.
func (p *Pipeline) extractIdentity(ctx context.Context, characterURL string) string {
	text, err := p.llm.Complete(ctx, identityInstruction, characterURL, identityMaxTokens)
	if err != nil {
		p.logger.Warn().Err(err).Msg("pipeline: identity extraction failed, using placeholder")
		return identityFallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return identityFallback
	}
	return text
}

func parseHexList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) > 2 {
		out = out[:2]
	}
	return out
}
