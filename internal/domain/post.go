package domain

import (
	"strings"
	"time"
)

// Mode selects which template family and validation rules apply throughout
// the prompt pipeline.
type Mode string

const (
	ModeMarketing Mode = "MARKETING"
	ModeHiring    Mode = "HIRING"
)

// ParseMode normalizes raw user input into a Mode.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(raw))) {
	case ModeMarketing:
		return ModeMarketing, nil
	case ModeHiring:
		return ModeHiring, nil
	default:
		return "", ErrInvalidMode
	}
}

// Post statuses. A post is created as pending_image once the prompt pipeline
// has run; queueing image generation moves it to pending, the worker claim
// moves it to processing, and the worker writes a terminal status.
const (
	PostStatusPending      = "pending"
	PostStatusPendingImage = "pending_image"
	PostStatusProcessing   = "processing"
	PostStatusCompleted    = "completed"
	PostStatusFailed       = "failed"
)

// HiringFields are the recruitment inputs, required when mode is HIRING and
// blank otherwise.
type HiringFields struct {
	Position   string `json:"position"`
	Experience string `json:"experience"`
	Openings   string `json:"openings"`
	Location   string `json:"location"`
}

// Empty reports whether no hiring field carries a value.
func (h HiringFields) Empty() bool {
	return strings.TrimSpace(h.Position) == "" &&
		strings.TrimSpace(h.Experience) == "" &&
		strings.TrimSpace(h.Openings) == "" &&
		strings.TrimSpace(h.Location) == ""
}

// Post is a persisted banner-generation record: the pipeline result plus
// image-generation state.
type Post struct {
	ID             string       `json:"id"`
	Keyword        string       `json:"keyword"`
	Mode           Mode         `json:"mode"`
	Status         string       `json:"status"`
	PrimaryHex     string       `json:"primary_hex"`
	SecondaryHex   string       `json:"secondary_hex"`
	Concept        string       `json:"concept"`
	ConceptWarning string       `json:"concept_warning,omitempty"`
	Title          string       `json:"title"`
	Subtitle       string       `json:"subtitle"`
	AddressLine    string       `json:"address_line"`
	FinalPrompt    string       `json:"final_prompt"`
	LogoURL        string       `json:"logo_url"`
	CharacterURL   string       `json:"character_url"`
	Hiring         HiringFields `json:"hiring"`
	ImageURLs      []string     `json:"generated_image_urls"`
	ErrorMessage   string       `json:"error_message,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
