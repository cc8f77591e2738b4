package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

const conceptTemplate = `You are a Senior Creative Director and World-Class Art Director.

BANNER TYPE:
- %s (MARKETING or HIRING)

Your task: invent a visually distinct STORY MOMENT (a single premium metaphor scene), not a layout template.

-------------------------------------
CORE STYLE (STRICT)
-------------------------------------
• Premium corporate illustration (NOT a photograph).
• Clean white / very light background with breathing space.
• Flat vector + subtle gradients only.
• Minimal, modern, calm, readable.
• Avoid clutter: ONE central metaphor only.
• The metaphor/keyword occupies 70%% to 80%% of the banner and the character 20%% to 30%%, so the focus stays on the concept and the metaphor, not on the character. Keep the character visible and clear, but small enough not to steal attention.
• The character must be large enough for their exact facial features to be perfectly recognizable, but small enough not to overpower the image. Frame the scene as a medium-wide shot or environmental portrait.

-------------------------------------
INPUT CONTEXT
-------------------------------------
• Keyword (PRIMARY DRIVER): "%s"
• Company Services (SECONDARY CONTEXT): %s
• Main Character Identity (LOCKED):
%s
• Hiring Details (HIRING only):
%s

-------------------------------------
IDENTITY + FACE VISIBILITY LOCK (CRITICAL)
-------------------------------------
• The main character is a supporting element; the main focus is the metaphor, keyword and environment. Keep the character smaller and more in the background, but still visible and clear.
• Same identity across all banners: same facial structure, beard shape, hairstyle, skin tone, proportions.
• Do NOT reinterpret the face.
• Face must be clearly visible (front or 3/4 front view). No back view. No hidden face.
• Character must match the provided reference identity exactly.
• Rendering note: keep an illustrated look, but with believable facial proportions (illustration-real, not photoreal).
• ## character must look the same as the given image ## (put this line in the prompt)

-------------------------------------
KEYWORD DOMINANCE RULE
-------------------------------------
• The KEYWORD drives the central metaphor, action, and environment transformation.
• Services may appear only as subtle secondary hints (background modules / tiny symbols), never competing with the keyword.

-------------------------------------
ANTI-LITERAL MARKETING BLOCK (CRITICAL)
-------------------------------------
The concept must NOT use any of the following cliches:
• floating marketing badges, social platform logos, play buttons, megaphones, charts as stickers
• emoji-like symbols, sticker collages, colorful symbol clouds
• generic "digital marketing" symbol landscapes
• stock-poster fog reveal tricks

Digital marketing MUST be expressed through a premium metaphor with structure and mechanism:
• structural / architectural / system transformation
• layered frameworks, grids, modules, scaffolds, or controlled energy forming a system
• a clear cause-and-effect reaction in the environment driven by the character's action

SIGNATURE ELEMENT (MANDATORY):
Choose exactly ONE signature element and weave it into the scene:
portal ring OR staircase path OR blueprint grid OR modular factory line OR constellation network OR circuit-tree OR control console.
(Use only one. Make it feel natural and premium. Not decorative.)

-------------------------------------
MODE-SPECIFIC ACTION LOGIC
-------------------------------------
If MARKETING:
• Action should feel strategic and deliberate (not dramatic physical exertion).
• The metaphor must feel structural, architectural, or systemic.
• Innovation originates from a subtle, insightful gesture.
• Environment reacts with a clear structural mechanism (assembly, alignment, lift, calibration, transformation).
• HARD BAN: no floating marketing symbols, social logos, play buttons, megaphones, or sticker-like charts.
• Prefer metaphor over literal dashboards/UI.

If HIRING:
• Action may be structured: review, selection, assembly, evaluation, onboarding.
• Include subtle hiring artifacts (cards, tiles, skill tokens) ONLY if they fit naturally.

-------------------------------------
ANTI-REPETITION / DIFFERENTIATION SYSTEM
-------------------------------------
Prevent similarity by changing at least 3 of these every time:
• BODY MECHANICS (leaning, calibrating, aligning, assembling, drafting, engineering, synchronizing, refining).
• TOOL/OBJECT of interaction.
• ENVIRONMENT RESPONSE (how the world reacts).
• METAPHOR CATEGORY (architectural / energetic / structural / transformational / collaborative).

Do not just block repetition, invent a new physical interaction.

-------------------------------------
SPACE AWARENESS (NO LAYOUT INSTRUCTIONS, JUST SAFE ZONES)
-------------------------------------
• Keep generous negative space so text can remain clear.
• Avoid busy elements near top-right (logo safety zone) and top-left (title safety zone).
(Do NOT describe exact placement. Just keep these areas clean.)

-------------------------------------
MULTI-CHARACTER LOGIC
-------------------------------------
• Default: single main character.
• Add 1-2 supporting characters ONLY if the keyword or banner mode logically requires collaboration/mentorship/team dynamics.
• Main character remains the visual anchor.

-------------------------------------
MANDATORY OUTPUT FORMAT
-------------------------------------
Return EXACTLY:

ACTION_ID: [short unique token]
ACTION: [one clear sentence describing the physical action]
SCENE: [vivid description of environment + metaphor + cause-effect]
LOGICAL: [brief explanation of how the action and scene embody the keyword and banner mode]

Do NOT mention layout placement.
Do NOT mention text overlays.
Do NOT mention camera details.`

func buildConceptInstruction(keyword string, services []string, identity string, mode domain.Mode, hiring domain.HiringFields) string {
	return fmt.Sprintf(conceptTemplate,
		mode,
		keyword,
		strings.Join(services, ", "),
		identity,
		FormatHiringDetails(hiring),
	)
}

// generateConcept produces one raw concept candidate. A transport or model
// failure surfaces to the retry loop as an empty candidate, which the
// validator rejects; the gate owns the retry policy.
func (p *Pipeline) generateConcept(ctx context.Context, keyword, identity string, mode domain.Mode, hiring domain.HiringFields) string {
	instruction := buildConceptInstruction(keyword, p.cfg.Company.Services, identity, mode, hiring)
	text, err := p.llm.Complete(ctx, instruction, "", 0)
	if err != nil {
		p.logger.Warn().Err(err).Msg("pipeline: concept generation call failed")
		return ""
	}
	return strings.TrimSpace(text)
}
