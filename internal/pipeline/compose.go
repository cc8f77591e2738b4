package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

// Hiring indicators that must never appear in a MARKETING prompt. Matched
// case-insensitively against the composed output.
var hiringRedFlags = []string{
	"we're hiring",
	"apply now",
	"join our team",
	"candidate card",
	"resume tile",
	"skill badge",
}

type composeInput struct {
	Mode      domain.Mode
	Keyword   string
	Copy      CopyBlock
	Primary   string
	Secondary string
	Concept   string
	Identity  string
	Hiring    domain.HiringFields
}

const marketingFinalTemplate = `You are an expert AI Image Prompt Engineer.

Generate ONE premium corporate square social media banner illustration for MARKETING.
## logo at the top right corner. ## (Must put this line in prompt)

-------------------------------------
BANNER TYPE: MARKETING
-------------------------------------

• Focus on brand authority, innovation, and strategic value.
• Absolutely NO hiring indicators.
• Do NOT include hiring badges.
• Do NOT include "WE'RE HIRING".
• Do NOT include candidate cards, HR visuals, or recruitment language.

-------------------------------------
VISUAL CONCEPT
-------------------------------------
%s
• Make sure the focus is on the keyword and the metaphor; do not make the main character too big, so it does not take the attention.
• Create a visual metaphor around the keyword with a hint of the services, showing how it transforms or elevates the business.
• You are the best Marketing Conceptualizer; keep it simple and minimal.
The character MUST perform the exact ACTION defined above.

-------------------------------------
STYLE
-------------------------------------
• Premium corporate illustration.
• Clean white background.
• Flat vector + subtle gradients.
• Minimal and uncluttered.
• No decorative symbols.
• No sticker-like UI.
• No social platform logos.

-------------------------------------
CHARACTER LOCK
-------------------------------------
• Same identity across banners.
• Same face shape, hairstyle, beard, skin tone.
• Front or 3/4 front view only, never from the back.
• ## character should look the same as in the image provided. ##
• Preserve identity using:
%s

-------------------------------------
KEYWORD DOMINANCE
-------------------------------------
• The entire metaphor must revolve around "%s".
• Services may appear subtly but must not dominate.

-------------------------------------
TEXT
-------------------------------------
Top-left:
Title: "%s" in bold sans-serif using %s, highlight key words in bold black.
Subtitle: "%s" in smaller sans-serif using %s.

If address exists:
• "%s" as a subtle pill above the footer.

-------------------------------------
FOOTER
-------------------------------------
Rounded floating footer bar.
Left: "%s"
Right: "%s" as button.
Background: %s
Text: white.

Return ONE cohesive detailed image generation prompt only.
Do NOT explain.`

const hiringFinalTemplate = `You are an expert AI Image Prompt Engineer.

Generate ONE premium corporate square social media banner illustration.
## logo at the top right corner. ## (Must put this line in prompt)

-------------------------------------
BANNER TYPE: HIRING
-------------------------------------

• Must instantly read as recruitment.
• Include a subtle "WE'RE HIRING" label near the title.
• Include structured hiring artifacts (cards, skill modules, evaluation boards).

-------------------------------------
VISUAL CONCEPT
-------------------------------------
%s
• Make sure the focus is on the keyword and the metaphor; do not make the main character too big, so it does not take the attention.
The character MUST perform the exact ACTION defined above.

-------------------------------------
STYLE
-------------------------------------
• Premium corporate illustration.
• Clean white background.
• Flat vector + subtle gradients.
• Minimal but structured.
• Avoid clutter.

-------------------------------------
CHARACTER LOCK
-------------------------------------
• Same identity across banners.
• Same face shape, hairstyle, beard, skin tone.
• Front or 3/4 front view only, never from the back.
• ## character should look the same as in the image provided. ##
• Preserve identity using:
%s

-------------------------------------
TEXT
-------------------------------------
Top-left:
Title: "%s" in bold sans-serif using %s.
Add a subtle "WE'RE HIRING" badge near the title.

Below the subtitle add bullet points (position and location must look bold):
%s

If address exists:
• "%s" as a subtle pill above the footer.

-------------------------------------
FOOTER
-------------------------------------
Rounded floating footer bar.
Left: "%s"
Right: "%s" as button.
Background: %s
Text: white.

Return ONE cohesive detailed image generation prompt only.
Do NOT explain.`

// composeFinalPrompt merges concept, copy, palette and identity into the
// literal payload for the image service. For MARKETING the output is scanned
// for hiring indicators afterwards; any match fails the run with
// domain.ErrModeLeakage rather than silently editing the text.
func (p *Pipeline) composeFinalPrompt(ctx context.Context, in composeInput) (string, error) {
	var instruction string
	switch in.Mode {
	case domain.ModeMarketing:
		instruction = fmt.Sprintf(marketingFinalTemplate,
			in.Concept,
			in.Identity,
			in.Keyword,
			in.Copy.Title, in.Primary,
			in.Copy.Subtitle, in.Secondary,
			in.Copy.AddressLine,
			p.cfg.Company.Website,
			p.cfg.Company.Phone,
			in.Primary,
		)
	case domain.ModeHiring:
		instruction = fmt.Sprintf(hiringFinalTemplate,
			in.Concept,
			in.Identity,
			in.Copy.Title, in.Primary,
			FormatHiringDetails(in.Hiring),
			in.Copy.AddressLine,
			p.cfg.Company.Website,
			p.cfg.Company.Phone,
			in.Primary,
		)
	default:
		return "", domain.ErrInvalidMode
	}

	result, err := p.llm.Complete(ctx, instruction, "", 0)
	if err != nil {
		return "", fmt.Errorf("final prompt: %w", err)
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return "", fmt.Errorf("final prompt: %w: empty response", domain.ErrProviderFailure)
	}

	if in.Mode == domain.ModeMarketing {
		if err := scanModeLeakage(result); err != nil {
			return "", err
		}
	}
	return result, nil
}

func scanModeLeakage(text string) error {
	lower := strings.ToLower(text)
	for _, flag := range hiringRedFlags {
		if strings.Contains(lower, flag) {
			return fmt.Errorf("%w: hiring indicator %q found in marketing prompt", domain.ErrModeLeakage, flag)
		}
	}
	return nil
}
