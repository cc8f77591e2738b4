package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivinfotech/iv-studio/internal/domain"
	"github.com/ivinfotech/iv-studio/internal/infra"
)

// Completer is the LLM capability every generation stage runs through: one
// instruction, an optional image reference, a response-length budget, text
// back. No streaming, no conversation state.
type Completer interface {
	Complete(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error)
}

// Uploader turns raw image bytes into a stable public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (string, error)
}

// Config is the immutable run configuration injected at construction.
type Config struct {
	Company             infra.CompanyProfile
	DefaultLogoURL      string
	DefaultCharacterURL string
}

// Request is the immutable input for one pipeline run.
type Request struct {
	Keyword        string
	Mode           domain.Mode
	LogoBytes      []byte
	CharacterBytes []byte
	Hiring         domain.HiringFields
}

// Result aggregates everything one run produced. Constructed once, never
// mutated afterwards.
type Result struct {
	PrimaryHex      string
	SecondaryHex    string
	Concept         string
	ConceptWarning  string
	Title           string
	Subtitle        string
	AddressLine     string
	FinalPrompt     string
	LogoURL         string
	CharacterURL    string
	LogoSource      AssetSource
	CharacterSource AssetSource
	Hiring          domain.HiringFields
}

const conceptMaxAttempts = 3

// Pipeline sequences asset resolution, attribute extraction, concept
// generation with its quality gate, copy generation and final prompt
// composition into a single run.
type Pipeline struct {
	llm      Completer
	uploader Uploader
	cfg      Config
	logger   zerolog.Logger
}

func New(llm Completer, uploader Uploader, cfg Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{llm: llm, uploader: uploader, cfg: cfg, logger: logger}
}

// Run executes the full pipeline. Color and identity extraction degrade to
// fixed defaults, the concept gate accepts its last candidate with a warning,
// and copy parsing synthesizes fallbacks; copy generation, final composition
// and mode isolation failures abort the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, errors.New("keyword is required")
	}
	if req.Mode != domain.ModeMarketing && req.Mode != domain.ModeHiring {
		return nil, domain.ErrInvalidMode
	}
	hiring := req.Hiring
	if req.Mode != domain.ModeHiring {
		hiring = domain.HiringFields{}
	}

	logoURL, logoSrc, err := p.resolveAsset(ctx, req.LogoBytes, p.cfg.DefaultLogoURL, "logo.png")
	if err != nil {
		return nil, err
	}
	charURL, charSrc, err := p.resolveAsset(ctx, req.CharacterBytes, p.cfg.DefaultCharacterURL, "character.png")
	if err != nil {
		return nil, err
	}

	primary, secondary := p.extractBrandColors(ctx, logoURL)
	identity := p.extractIdentity(ctx, charURL)

	concept, warning, err := p.conceptWithGate(ctx, keyword, identity, req.Mode, hiring)
	if err != nil {
		return nil, err
	}

	block, err := p.generateCopy(ctx, keyword, req.Mode, hiring)
	if err != nil {
		return nil, err
	}

	finalPrompt, err := p.composeFinalPrompt(ctx, composeInput{
		Mode:      req.Mode,
		Keyword:   keyword,
		Copy:      block,
		Primary:   primary,
		Secondary: secondary,
		Concept:   concept,
		Identity:  identity,
		Hiring:    hiring,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		PrimaryHex:      primary,
		SecondaryHex:    secondary,
		Concept:         concept,
		ConceptWarning:  warning,
		Title:           block.Title,
		Subtitle:        block.Subtitle,
		AddressLine:     block.AddressLine,
		FinalPrompt:     finalPrompt,
		LogoURL:         logoURL,
		CharacterURL:    charURL,
		LogoSource:      logoSrc,
		CharacterSource: charSrc,
		Hiring:          hiring,
	}, nil
}

// conceptWithGate retries generation up to conceptMaxAttempts, stopping at
// the first candidate the validator accepts. When every attempt is rejected
// the last non-empty candidate still flows downstream, with the rejection
// reason surfaced as a warning. Only a run where no attempt produced any
// text at all fails, since that means the provider is down.
func (p *Pipeline) conceptWithGate(ctx context.Context, keyword, identity string, mode domain.Mode, hiring domain.HiringFields) (string, string, error) {
	var candidate, lastReason string
	for attempt := 1; attempt <= conceptMaxAttempts; attempt++ {
		candidate = p.generateConcept(ctx, keyword, identity, mode, hiring)
		ok, reason := ValidateConcept(candidate)
		if ok {
			return candidate, "", nil
		}
		lastReason = reason
		p.logger.Warn().
			Int("attempt", attempt).
			Str("reason", reason).
			Msg("pipeline: concept rejected")
	}
	if strings.TrimSpace(candidate) == "" {
		return "", "", fmt.Errorf("concept generation: %w: no candidate produced after %d attempts", domain.ErrProviderFailure, conceptMaxAttempts)
	}
	p.logger.Warn().Str("reason", lastReason).Msg("pipeline: concept quality gate exhausted, accepting last candidate")
	return candidate, lastReason, nil
}
