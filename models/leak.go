package models

// LeakCategory names one revenue-risk rule.
type LeakCategory string

const (
	LeakNoWebsite             LeakCategory = "NoWebsite"
	LeakNoPhoneOrBot          LeakCategory = "NoPhoneOrBot"
	LeakLowReviewTrust        LeakCategory = "LowReviewTrust"
	LeakMissingBookingChannel LeakCategory = "MissingBookingChannel"
)

// LossUnit tells how a LossRange should be read.
type LossUnit string

const (
	LossUnitCurrency       LossUnit = "MXN_MONTH"
	LossUnitTrafficPercent LossUnit = "TRAFFIC_PERCENT"
)

type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// LossRange is an estimated monthly loss band.
type LossRange struct {
	Min  float64  `json:"min"`
	Max  float64  `json:"max"`
	Unit LossUnit `json:"unit"`
}

// LeakFinding is the result of evaluating one rule against a profile.
type LeakFinding struct {
	Category  LeakCategory `json:"category"`
	Applies   bool         `json:"applies"`
	Severity  Severity     `json:"severity"`
	Loss      LossRange    `json:"estimatedMonthlyLoss"`
	Rationale string       `json:"rationale,omitempty"`
}

// LossVerdict is the single monthly figure synthesized from the currency bands.
type LossVerdict struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Estimate float64 `json:"estimate"`
	Currency string  `json:"currency"`
}

// ApplicableFindings filters out the rules that did not fire.
func ApplicableFindings(findings []LeakFinding) []LeakFinding {
	out := make([]LeakFinding, 0, len(findings))
	for _, f := range findings {
		if f.Applies {
			out = append(out, f)
		}
	}
	return out
}
