package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ivinfotech/iv-studio/internal/domain"
	"github.com/ivinfotech/iv-studio/internal/infra"
)

type fakeCompleter struct {
	complete func(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error)
}

func (f fakeCompleter) Complete(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error) {
	if f.complete != nil {
		return f.complete(ctx, instruction, imageURL, maxTokens)
	}
	return "", errors.New("complete not implemented")
}

type fakeUploader struct {
	upload func(ctx context.Context, data []byte, filename, folder string) (string, error)
}

func (f fakeUploader) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	if f.upload != nil {
		return f.upload(ctx, data, filename, folder)
	}
	return "", errors.New("upload not implemented")
}

func testConfig() Config {
	return Config{
		Company: infra.CompanyProfile{
			Name:     "IV Infotech",
			Website:  "www.ivinfotech.com",
			Phone:    "Call Now: 9924426361",
			Address:  "S Cube, T-332, Mehsana, Gujarat 384002",
			Services: []string{"Digital Marketing", "UI/UX Design"},
		},
		DefaultLogoURL:      "https://x/default-logo.png",
		DefaultCharacterURL: "https://x/default-character.jpg",
	}
}

// scriptedCompleter routes by recognizable fragments of each stage's
// instruction so one fake can serve a whole run.
func scriptedCompleter(conceptResponses []string, conceptCalls *int) fakeCompleter {
	return fakeCompleter{complete: func(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error) {
		switch {
		case strings.Contains(instruction, "HEX codes"):
			return "#112233, #445566", nil
		case strings.Contains(instruction, "IDENTITY-LOCK"):
			return "- Round face\n- Short dark hair\n- Trimmed beard", nil
		case strings.Contains(instruction, "MANDATORY OUTPUT FORMAT"):
			idx := *conceptCalls
			*conceptCalls++
			if idx >= len(conceptResponses) {
				idx = len(conceptResponses) - 1
			}
			return conceptResponses[idx], nil
		case strings.Contains(instruction, "HEADLINE:"):
			return "HEADLINE: Migrate With Confidence", nil
		case strings.Contains(instruction, "OUTPUT FORMAT (STRICT)"):
			return "TITLE: Backend Engineers Wanted\nSUBTITLE: 3+ years\nADDRESS: Mehsana", nil
		case strings.Contains(instruction, "Image Prompt Engineer"):
			return "A premium square corporate illustration with a portal ring assembling modules, logo space top right, footer bar with contact details.", nil
		default:
			return "", errors.New("unexpected instruction")
		}
	}}
}

func TestRunMarketingEndToEndWithDefaults(t *testing.T) {
	conceptCalls := 0
	llm := scriptedCompleter([]string{validConcept}, &conceptCalls)
	p := New(llm, fakeUploader{}, testConfig(), zerolog.Nop())

	res, err := p.Run(context.Background(), Request{
		Keyword: "cloud migration",
		Mode:    domain.ModeMarketing,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.LogoURL != "https://x/default-logo.png" || res.LogoSource != AssetDefault {
		t.Fatalf("logo = %q (%s), want default passthrough", res.LogoURL, res.LogoSource)
	}
	if res.CharacterURL != "https://x/default-character.jpg" || res.CharacterSource != AssetDefault {
		t.Fatalf("character = %q (%s), want default passthrough", res.CharacterURL, res.CharacterSource)
	}
	if res.PrimaryHex != "#112233" || res.SecondaryHex != "#445566" {
		t.Fatalf("palette = %q/%q", res.PrimaryHex, res.SecondaryHex)
	}
	if conceptCalls != 1 {
		t.Fatalf("concept calls = %d, want 1", conceptCalls)
	}
	if res.ConceptWarning != "" {
		t.Fatalf("unexpected concept warning %q", res.ConceptWarning)
	}
	if res.Title != "Migrate With Confidence" {
		t.Fatalf("Title = %q", res.Title)
	}
	if res.Subtitle != "" || res.AddressLine != "" {
		t.Fatal("marketing run must leave subtitle and address empty")
	}
	if !strings.Contains(res.FinalPrompt, "portal ring") {
		t.Fatalf("FinalPrompt missing signature element: %q", res.FinalPrompt)
	}
	if !res.Hiring.Empty() {
		t.Fatal("marketing result must echo empty hiring fields")
	}
}

func TestRunUploadsAssetsWhenBytesProvided(t *testing.T) {
	conceptCalls := 0
	var uploaded []string
	uploader := fakeUploader{upload: func(ctx context.Context, data []byte, filename, folder string) (string, error) {
		uploaded = append(uploaded, filename)
		return "https://cdn.example.com/" + folder + "/" + filename, nil
	}}
	p := New(scriptedCompleter([]string{validConcept}, &conceptCalls), uploader, testConfig(), zerolog.Nop())

	res, err := p.Run(context.Background(), Request{
		Keyword:        "cloud migration",
		Mode:           domain.ModeMarketing,
		LogoBytes:      []byte("logo"),
		CharacterBytes: []byte("char"),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(uploaded) != 2 {
		t.Fatalf("uploads = %v, want logo and character", uploaded)
	}
	if res.LogoSource != AssetUploaded || res.CharacterSource != AssetUploaded {
		t.Fatalf("sources = %s/%s, want uploaded", res.LogoSource, res.CharacterSource)
	}
	if res.LogoURL != "https://cdn.example.com/kie-inputs/logo.png" {
		t.Fatalf("LogoURL = %q", res.LogoURL)
	}
}

func TestRunUploadFailureIsFatal(t *testing.T) {
	uploader := fakeUploader{upload: func(ctx context.Context, data []byte, filename, folder string) (string, error) {
		return "", errors.New("no credentials")
	}}
	p := New(fakeCompleter{}, uploader, testConfig(), zerolog.Nop())
	_, err := p.Run(context.Background(), Request{
		Keyword:   "cloud migration",
		Mode:      domain.ModeMarketing,
		LogoBytes: []byte("logo"),
	})
	if err == nil {
		t.Fatal("expected upload failure to abort the run")
	}
}

func TestConceptGateRetriesAndAcceptsWithinBound(t *testing.T) {
	conceptCalls := 0
	rejected := validConcept + "\nA giant megaphone dominates the scene."
	llm := scriptedCompleter([]string{rejected, rejected, validConcept}, &conceptCalls)
	p := New(llm, fakeUploader{}, testConfig(), zerolog.Nop())

	res, err := p.Run(context.Background(), Request{Keyword: "branding", Mode: domain.ModeMarketing})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if conceptCalls != 3 {
		t.Fatalf("concept calls = %d, want 3", conceptCalls)
	}
	if res.ConceptWarning != "" {
		t.Fatalf("accepted concept must carry no warning, got %q", res.ConceptWarning)
	}
}

func TestConceptGateAcceptsLastCandidateWithWarning(t *testing.T) {
	conceptCalls := 0
	rejected := validConcept + "\nSticker collage everywhere."
	llm := scriptedCompleter([]string{rejected, rejected, rejected}, &conceptCalls)
	p := New(llm, fakeUploader{}, testConfig(), zerolog.Nop())

	res, err := p.Run(context.Background(), Request{Keyword: "branding", Mode: domain.ModeMarketing})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if conceptCalls != 3 {
		t.Fatalf("concept calls = %d, want exactly 3", conceptCalls)
	}
	if res.Concept == "" {
		t.Fatal("gate must still return the last candidate")
	}
	if !strings.Contains(res.ConceptWarning, "banned cliche pattern") {
		t.Fatalf("ConceptWarning = %q, want rejection reason", res.ConceptWarning)
	}
}

func TestBrandColorExtractionNeverFails(t *testing.T) {
	p := New(fakeCompleter{complete: func(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error) {
		return "", errors.New("model down")
	}}, fakeUploader{}, testConfig(), zerolog.Nop())

	primary, secondary := p.extractBrandColors(context.Background(), "https://x/logo.png")
	if primary != "#0055FF" || secondary != "#555555" {
		t.Fatalf("palette = %q/%q, want defaults", primary, secondary)
	}

	p = New(fakeCompleter{complete: func(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error) {
		return "#ABCDEF", nil
	}}, fakeUploader{}, testConfig(), zerolog.Nop())
	primary, secondary = p.extractBrandColors(context.Background(), "https://x/logo.png")
	if primary != "#ABCDEF" || secondary != "#555555" {
		t.Fatalf("palette = %q/%q, want single color padded", primary, secondary)
	}
}

func TestIdentityExtractionFallsBackToPlaceholder(t *testing.T) {
	p := New(fakeCompleter{complete: func(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error) {
		return "   ", nil
	}}, fakeUploader{}, testConfig(), zerolog.Nop())
	if got := p.extractIdentity(context.Background(), "https://x/char.jpg"); got != identityFallback {
		t.Fatalf("identity = %q, want placeholder", got)
	}
}

func TestMarketingComposeRejectsHiringLeakage(t *testing.T) {
	conceptCalls := 0
	llm := fakeCompleter{complete: func(ctx context.Context, instruction, imageURL string, maxTokens int) (string, error) {
		switch {
		case strings.Contains(instruction, "HEX codes"):
			return "#112233, #445566", nil
		case strings.Contains(instruction, "IDENTITY-LOCK"):
			return "- Round face", nil
		case strings.Contains(instruction, "MANDATORY OUTPUT FORMAT"):
			conceptCalls++
			return validConcept, nil
		case strings.Contains(instruction, "HEADLINE:"):
			return "HEADLINE: Grow Fast", nil
		case strings.Contains(instruction, "Image Prompt Engineer"):
			return "A banner with a bold JOIN OUR TEAM ribbon across the middle.", nil
		default:
			return "", errors.New("unexpected instruction")
		}
	}}
	p := New(llm, fakeUploader{}, testConfig(), zerolog.Nop())

	_, err := p.Run(context.Background(), Request{Keyword: "branding", Mode: domain.ModeMarketing})
	if !errors.Is(err, domain.ErrModeLeakage) {
		t.Fatalf("err = %v, want ErrModeLeakage", err)
	}
}

func TestRunHiringPopulatesCopyAndEchoesInputs(t *testing.T) {
	conceptCalls := 0
	llm := scriptedCompleter([]string{validConcept}, &conceptCalls)
	p := New(llm, fakeUploader{}, testConfig(), zerolog.Nop())

	hiring := domain.HiringFields{
		Position:   "Backend Engineer",
		Experience: "3+ years",
		Openings:   "2",
		Location:   "Mehsana",
	}
	res, err := p.Run(context.Background(), Request{Keyword: "backend hiring", Mode: domain.ModeHiring, Hiring: hiring})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Title != "Backend Engineers Wanted" {
		t.Fatalf("Title = %q", res.Title)
	}
	if res.Hiring != hiring {
		t.Fatalf("Hiring echo = %#v", res.Hiring)
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	p := New(fakeCompleter{}, fakeUploader{}, testConfig(), zerolog.Nop())
	if _, err := p.Run(context.Background(), Request{Keyword: "  ", Mode: domain.ModeMarketing}); err == nil {
		t.Fatal("expected error for blank keyword")
	}
	if _, err := p.Run(context.Background(), Request{Keyword: "x", Mode: domain.Mode("BOTH")}); !errors.Is(err, domain.ErrInvalidMode) {
		t.Fatalf("err = %v, want ErrInvalidMode", err)
	}
}
