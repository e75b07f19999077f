package leak

import (
	"fmt"
	"strings"

	"github.com/Envapa08241978/soynexo-servidor-final/models"
)

// Band is a monthly loss range expressed in Policy.Currency, or in percent of
// foot traffic for the review rule.
type Band struct {
	Min float64
	Max float64
}

func (b Band) validate(name string) error {
	if b.Min < 0 || b.Max < b.Min {
		return fmt.Errorf("leak policy: band %s has invalid range [%v, %v]", name, b.Min, b.Max)
	}
	return nil
}

// Policy holds every tunable number the rule engine uses. The defaults are
// sales-pitch estimates, not measured figures.
type Policy struct {
	Currency        string
	NoWebsite       Band
	NoPhone         Band
	NoBot           Band
	LowReviewsPct   Band
	MissingBooking  Band
	ReviewThreshold int
	// ServiceCategories are matched against directory category tags by whole
	// underscore-separated words, case-insensitively: "salon" matches
	// "hair_salon" but "spa" does not match "space_store".
	ServiceCategories []string
}

// DefaultServiceCategories covers health, legal, repair, grooming,
// consulting and education businesses.
var DefaultServiceCategories = []string{
	// health
	"dentist", "dental", "doctor", "hospital", "clinic", "physiotherapist",
	"chiropractor", "veterinary_care", "medical_lab", "psychologist",
	// legal
	"lawyer", "legal", "notary", "attorney",
	// repair
	"repair", "plumber", "electrician", "locksmith", "roofing", "mechanic",
	// grooming
	"beauty_salon", "hair", "barber", "spa", "nail_salon", "makeup",
	// consulting
	"consultant", "accounting", "insurance_agency", "real_estate_agency",
	// education
	"school", "tutor", "academy", "university", "driving_school",
}

func DefaultPolicy() Policy {
	return Policy{
		Currency:          "MXN",
		NoWebsite:         Band{Min: 15000, Max: 25000},
		NoPhone:           Band{Min: 8000, Max: 12000},
		NoBot:             Band{Min: 3000, Max: 6000},
		LowReviewsPct:     Band{Min: 10, Max: 15},
		MissingBooking:    Band{Min: 5000, Max: 12000},
		ReviewThreshold:   20,
		ServiceCategories: append([]string(nil), DefaultServiceCategories...),
	}
}

// Validate checks the bands are ordered and the vocabulary is usable.
func (p Policy) Validate() error {
	bands := map[string]Band{
		"no_website":      p.NoWebsite,
		"no_phone":        p.NoPhone,
		"no_bot":          p.NoBot,
		"low_reviews_pct": p.LowReviewsPct,
		"missing_booking": p.MissingBooking,
	}
	for name, b := range bands {
		if err := b.validate(name); err != nil {
			return err
		}
	}
	if p.LowReviewsPct.Max > 100 {
		return fmt.Errorf("leak policy: low_reviews_pct max %v exceeds 100", p.LowReviewsPct.Max)
	}
	if p.ReviewThreshold < 0 {
		return fmt.Errorf("leak policy: negative review threshold %d", p.ReviewThreshold)
	}
	if strings.TrimSpace(p.Currency) == "" {
		return fmt.Errorf("leak policy: currency is required")
	}
	return nil
}

func (p Policy) currencyRange(b Band) models.LossRange {
	return models.LossRange{Min: b.Min, Max: b.Max, Unit: models.LossUnitCurrency}
}

func (p Policy) isServiceCategory(tags []string) bool {
	for _, tag := range tags {
		words := strings.Split(strings.ToLower(strings.TrimSpace(tag)), "_")
		for _, vocab := range p.ServiceCategories {
			vocab = strings.ToLower(strings.TrimSpace(vocab))
			if vocab != "" && containsWords(words, strings.Split(vocab, "_")) {
				return true
			}
		}
	}
	return false
}

// containsWords reports whether needle occurs as a contiguous run in words.
func containsWords(words, needle []string) bool {
	for i := 0; i+len(needle) <= len(words); i++ {
		match := true
		for j, w := range needle {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
