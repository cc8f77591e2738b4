package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var requiredConceptLabels = []string{"action_id:", "action:", "scene:", "logical:"}

// Cliche icon-collage patterns that turn a premium banner into a stock
// poster. Matched case-insensitively against the whole concept.
var bannedConceptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bicon(s)?\b`),
	regexp.MustCompile(`(?i)\bseo\b`),
	regexp.MustCompile(`(?i)\bsocial\s*media\b`),
	regexp.MustCompile(`(?i)\bmegaphone\b`),
	regexp.MustCompile(`(?i)\bplay\s*button\b`),
	regexp.MustCompile(`(?i)\byoutube\b|\binstagram\b|\bfacebook\b|\bwhatsapp\b|\blinkedin\b`),
	regexp.MustCompile(`(?i)\bsticker\b`),
	regexp.MustCompile(`(?i)\bemoji\b`),
	regexp.MustCompile(`(?i)\bui\s*icons?\b`),
	regexp.MustCompile(`(?i)\bicon\s*cloud\b`),
	regexp.MustCompile(`(?i)\bcolorful\s*icons?\b`),
}

// ValidateConcept is the quality gate applied to every concept candidate.
// Checks run in order: non-empty, all four required labels present, no
// banned cliche pattern. The reason names the specific failure.
func ValidateConcept(conceptText string) (bool, string) {
	t := strings.ToLower(conceptText)
	if strings.TrimSpace(t) == "" {
		return false, "empty concept"
	}
	for _, label := range requiredConceptLabels {
		if !strings.Contains(t, label) {
			return false, "missing required ACTION_ID/ACTION/SCENE/LOGICAL format"
		}
	}
	for _, pat := range bannedConceptPatterns {
		if pat.MatchString(conceptText) {
			return false, fmt.Sprintf("contains banned cliche pattern: %s", pat.String())
		}
	}
	return true, "ok"
}
