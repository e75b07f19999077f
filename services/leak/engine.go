// Package leak estimates how much revenue a business loses to gaps in its
// digital presence. Evaluation is pure: the same profile always yields the
// same findings.
package leak

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Envapa08241978/soynexo-servidor-final/models"
)

// ErrUnresolvedSignal is returned when a profile still carries a presence
// signal that the resolver never settled.
var ErrUnresolvedSignal = errors.New("leak: profile has unresolved presence signal")

// Engine evaluates the fixed rule list against a business profile.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

func (e *Engine) Policy() Policy { return e.policy }

type rule func(p Policy, profile *models.BusinessProfile) models.LeakFinding

// rules is the complete rule list; Evaluate always returns one finding per entry.
var rules = []rule{
	noWebsiteRule,
	noPhoneOrBotRule,
	lowReviewTrustRule,
	missingBookingChannelRule,
}

// Evaluate runs every rule and returns the findings ordered for presentation:
// applicable currency losses by size, then applicable traffic losses, then the
// rules that did not fire.
func (e *Engine) Evaluate(profile *models.BusinessProfile) ([]models.LeakFinding, error) {
	if profile == nil {
		return nil, errors.New("leak: nil profile")
	}
	for _, s := range []struct {
		name   string
		signal models.Presence
	}{
		{"phone", profile.Phone},
		{"website", profile.Website},
		{"autoResponder", profile.AutoResponder},
	} {
		if !s.signal.IsResolved() {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedSignal, s.name)
		}
	}

	findings := make([]models.LeakFinding, 0, len(rules))
	for _, r := range rules {
		findings = append(findings, r(e.policy, profile))
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return rank(findings[i]) > rank(findings[j])
	})
	return findings, nil
}

// rank orders applicable currency findings above applicable percentage
// findings, which sit above everything that does not apply.
func rank(f models.LeakFinding) float64 {
	switch {
	case !f.Applies:
		return -1
	case f.Loss.Unit == models.LossUnitTrafficPercent:
		return 0
	default:
		return 1 + f.Loss.Max
	}
}

func noWebsiteRule(p Policy, profile *models.BusinessProfile) models.LeakFinding {
	f := models.LeakFinding{
		Category: models.LeakNoWebsite,
		Loss:     models.LossRange{Unit: models.LossUnitCurrency},
	}
	if profile.Website.IsAbsent() {
		f.Applies = true
		f.Severity = models.SeverityCritical
		f.Loss = p.currencyRange(p.NoWebsite)
		f.Rationale = "Sin sitio web los clientes no ven catálogo ni menú y se van con la competencia."
	}
	return f
}

func noPhoneOrBotRule(p Policy, profile *models.BusinessProfile) models.LeakFinding {
	f := models.LeakFinding{
		Category: models.LeakNoPhoneOrBot,
		Loss:     models.LossRange{Unit: models.LossUnitCurrency},
	}
	switch {
	case profile.Phone.IsAbsent():
		f.Applies = true
		f.Severity = models.SeverityHigh
		f.Loss = p.currencyRange(p.NoPhone)
		f.Rationale = "Sin teléfono publicado nadie puede llamar para comprar o preguntar."
	case profile.AutoResponder.IsAbsent():
		f.Applies = true
		f.Severity = models.SeverityLow
		f.Loss = p.currencyRange(p.NoBot)
		f.Rationale = "Tiene teléfono pero nadie contesta fuera de horario: se pierden las ventas nocturnas."
	}
	return f
}

func lowReviewTrustRule(p Policy, profile *models.BusinessProfile) models.LeakFinding {
	f := models.LeakFinding{
		Category: models.LeakLowReviewTrust,
		Loss:     models.LossRange{Unit: models.LossUnitTrafficPercent},
	}
	if profile.ReviewCount < p.ReviewThreshold {
		f.Applies = true
		f.Severity = models.SeverityHigh
		f.Loss = models.LossRange{
			Min:  p.LowReviewsPct.Min,
			Max:  p.LowReviewsPct.Max,
			Unit: models.LossUnitTrafficPercent,
		}
		f.Rationale = fmt.Sprintf("Con menos de %d reseñas hay desconfianza social y se pierde parte del flujo de clientes.", p.ReviewThreshold)
	}
	return f
}

func missingBookingChannelRule(p Policy, profile *models.BusinessProfile) models.LeakFinding {
	f := models.LeakFinding{
		Category: models.LeakMissingBookingChannel,
		Loss:     models.LossRange{Unit: models.LossUnitCurrency},
	}
	if profile.Website.IsAbsent() && p.isServiceCategory(profile.Categories) {
		f.Applies = true
		f.Severity = models.SeverityCritical
		f.Loss = p.currencyRange(p.MissingBooking)
		f.Rationale = "Es un negocio de servicios sin agenda en línea: URGE un sistema de citas automáticas."
	}
	return f
}

// Summarize folds the applicable currency bands into one monthly verdict.
// Losses are cumulative, so the bands are summed rather than overlapped. The
// estimate is the midpoint of the summed band, rounded to the nearest 500.
func (e *Engine) Summarize(findings []models.LeakFinding) models.LossVerdict {
	v := models.LossVerdict{Currency: e.policy.Currency}
	for _, f := range findings {
		if !f.Applies || f.Loss.Unit != models.LossUnitCurrency {
			continue
		}
		v.Min += f.Loss.Min
		v.Max += f.Loss.Max
	}
	if v.Max == 0 {
		return v
	}
	v.Estimate = math.Round((v.Min+v.Max)/2/500) * 500
	v.Estimate = math.Max(v.Min, math.Min(v.Max, v.Estimate))
	return v
}
