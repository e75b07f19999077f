package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Envapa08241978/soynexo-servidor-final/models"
)

var (
	ErrEmptyNarrative = errors.New("narrative is empty")
	// ErrNarrativeOffContract means the model dropped a required section,
	// omitted the computed estimate or quoted an amount it was never given.
	ErrNarrativeOffContract = errors.New("narrative does not follow the report contract")
)

// Section headers every report must carry.
const (
	SectionDiagnosis = "DIAGNÓSTICO DE FUGAS"
	SectionVerdict   = "VEREDICTO FINANCIERO"
)

var amountPattern = regexp.MustCompile(`\$\s*(\d[\d.,]*)`)

// NarrativeError is a hard failure of the report step. There is no fallback
// narrative.
type NarrativeError struct {
	Err error
}

func (e *NarrativeError) Error() string { return "narrative generation failed: " + e.Err.Error() }
func (e *NarrativeError) Unwrap() error { return e.Err }

// NarrativeGenerator renders the persuasive report from deterministic findings.
type NarrativeGenerator struct {
	model   TextGenerator
	timeout time.Duration
}

func NewNarrativeGenerator(model TextGenerator, timeout time.Duration) *NarrativeGenerator {
	return &NarrativeGenerator{model: model, timeout: timeout}
}

// grounding is the only data the model sees about the business.
type grounding struct {
	Negocio   models.BusinessProfile `json:"negocio"`
	Hallazgos []groundedFinding      `json:"hallazgos"`
	Veredicto models.LossVerdict     `json:"veredicto_mensual"`
}

type groundedFinding struct {
	Categoria string `json:"categoria"`
	Severidad string `json:"severidad"`
	Perdida   string `json:"perdida_estimada"`
	Razon     string `json:"razon"`
}

// Render builds the prompt from the applicable findings and verdict, calls
// the model and returns sanitized inline HTML.
func (g *NarrativeGenerator) Render(
	ctx context.Context,
	profile models.BusinessProfile,
	findings []models.LeakFinding,
	verdict models.LossVerdict,
) (string, error) {
	prompt, err := BuildNarrativePrompt(profile, findings, verdict)
	if err != nil {
		return "", &NarrativeError{Err: err}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.model.GenerateText(ctx, prompt)
	if err != nil {
		return "", &NarrativeError{Err: err}
	}
	text = SanitizeInlineHTML(text)
	if text == "" {
		return "", &NarrativeError{Err: ErrEmptyNarrative}
	}
	if err := checkNarrative(text, findings, verdict); err != nil {
		return "", &NarrativeError{Err: err}
	}
	return text, nil
}

// checkNarrative enforces the report structure and that every quoted amount
// comes from the grounding data. The estimate must appear verbatim.
func checkNarrative(text string, findings []models.LeakFinding, verdict models.LossVerdict) error {
	for _, section := range []string{SectionDiagnosis, SectionVerdict} {
		if !strings.Contains(text, section) {
			return fmt.Errorf("%w: missing section %q", ErrNarrativeOffContract, section)
		}
	}

	printer := message.NewPrinter(language.LatinAmericanSpanish)
	estimate := FormatAmount(printer, verdict.Estimate, verdict.Currency)
	if !strings.Contains(text, estimate) {
		return fmt.Errorf("%w: estimate %q not quoted", ErrNarrativeOffContract, estimate)
	}

	allowed := map[int64]bool{
		int64(verdict.Estimate): true,
		int64(verdict.Min):      true,
		int64(verdict.Max):      true,
	}
	for _, f := range models.ApplicableFindings(findings) {
		if f.Loss.Unit == models.LossUnitCurrency {
			allowed[int64(f.Loss.Min)] = true
			allowed[int64(f.Loss.Max)] = true
		}
	}
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, m[1])
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || !allowed[n] {
			return fmt.Errorf("%w: unknown amount %q", ErrNarrativeOffContract, strings.TrimSpace(m[0]))
		}
	}
	return nil
}

// BuildNarrativePrompt injects only the applicable findings so the model has
// nothing else to narrate.
func BuildNarrativePrompt(profile models.BusinessProfile, findings []models.LeakFinding, verdict models.LossVerdict) (string, error) {
	printer := message.NewPrinter(language.LatinAmericanSpanish)

	g := grounding{Negocio: profile, Veredicto: verdict, Hallazgos: []groundedFinding{}}
	for _, f := range models.ApplicableFindings(findings) {
		g.Hallazgos = append(g.Hallazgos, groundedFinding{
			Categoria: string(f.Category),
			Severidad: f.Severity.String(),
			Perdida:   formatLoss(printer, f.Loss, verdict.Currency),
			Razon:     f.Rationale,
		})
	}

	raw, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal grounding: %w", err)
	}

	var buf bytes.Buffer
	err = narrativeTemplate.Execute(&buf, struct {
		Grounding string
		Estimate  string
	}{
		Grounding: string(raw),
		Estimate:  FormatAmount(printer, verdict.Estimate, verdict.Currency),
	})
	if err != nil {
		return "", fmt.Errorf("render narrative prompt: %w", err)
	}
	return buf.String(), nil
}

// FormatAmount renders "$33,000 MXN".
func FormatAmount(p *message.Printer, amount float64, currency string) string {
	return strings.TrimSpace(p.Sprintf("$%.0f %s", amount, currency))
}

func formatLoss(p *message.Printer, r models.LossRange, currency string) string {
	if r.Unit == models.LossUnitTrafficPercent {
		return p.Sprintf("%.0f%%–%.0f%% del flujo de clientes", r.Min, r.Max)
	}
	return FormatAmount(p, r.Min, "") + " a " + FormatAmount(p, r.Max, currency) + " al mes"
}
