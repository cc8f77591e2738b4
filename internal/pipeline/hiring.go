package pipeline

import (
	"strings"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

// FormatHiringDetails renders the normalized hiring bullet block shared by
// the concept instruction and the final prompt. Only populated fields become
// lines; an entirely empty set renders as "N/A".
func FormatHiringDetails(h domain.HiringFields) string {
	var lines []string
	if v := strings.TrimSpace(h.Position); v != "" {
		lines = append(lines, "- Position: "+v)
	}
	if v := strings.TrimSpace(h.Experience); v != "" {
		lines = append(lines, "- Experience: "+v)
	}
	if v := strings.TrimSpace(h.Openings); v != "" {
		lines = append(lines, "- Openings: "+v)
	}
	if v := strings.TrimSpace(h.Location); v != "" {
		lines = append(lines, "- Location: "+v)
	}
	if len(lines) == 0 {
		return "N/A"
	}
	return strings.Join(lines, "\n")
}
