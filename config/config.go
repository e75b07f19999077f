package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Envapa08241978/soynexo-servidor-final/services/leak"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string   `mapstructure:"APP_PORT"`
	Env               string   `mapstructure:"ENV"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int      `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    []string `mapstructure:"ALLOWED_ORIGINS"`

	// Google Places (New) API.
	GoogleMapsAPIKey string        `mapstructure:"GOOGLE_MAPS_API_KEY"`
	PlacesBaseURL    string        `mapstructure:"PLACES_BASE_URL"`
	PlacesTimeout    time.Duration `mapstructure:"PLACES_TIMEOUT"`
	PlacesRPS        float64       `mapstructure:"PLACES_RPS"`
	PlacesBurst      int           `mapstructure:"PLACES_BURST"`

	// Gemini.
	GeminiAPIKey     string        `mapstructure:"GEMINI_API_KEY"`
	ClassifierModel  string        `mapstructure:"CLASSIFIER_MODEL"`
	NarrativeModel   string        `mapstructure:"NARRATIVE_MODEL"`
	ClassifyTimeout  time.Duration `mapstructure:"CLASSIFY_TIMEOUT"`
	NarrativeTimeout time.Duration `mapstructure:"NARRATIVE_TIMEOUT"`

	// Leak policy. Amounts are MXN per month, except the review band which is
	// percent of foot traffic.
	LeakNoWebsiteMin      float64  `mapstructure:"LEAK_NO_WEBSITE_MIN"`
	LeakNoWebsiteMax      float64  `mapstructure:"LEAK_NO_WEBSITE_MAX"`
	LeakNoPhoneMin        float64  `mapstructure:"LEAK_NO_PHONE_MIN"`
	LeakNoPhoneMax        float64  `mapstructure:"LEAK_NO_PHONE_MAX"`
	LeakNoBotMin          float64  `mapstructure:"LEAK_NO_BOT_MIN"`
	LeakNoBotMax          float64  `mapstructure:"LEAK_NO_BOT_MAX"`
	LeakLowReviewsPctMin  float64  `mapstructure:"LEAK_LOW_REVIEWS_PCT_MIN"`
	LeakLowReviewsPctMax  float64  `mapstructure:"LEAK_LOW_REVIEWS_PCT_MAX"`
	LeakMissingBookingMin float64  `mapstructure:"LEAK_MISSING_BOOKING_MIN"`
	LeakMissingBookingMax float64  `mapstructure:"LEAK_MISSING_BOOKING_MAX"`
	LeakReviewThreshold   int      `mapstructure:"LEAK_REVIEW_THRESHOLD"`
	LeakServiceCategories []string `mapstructure:"LEAK_SERVICE_CATEGORIES"`
}

// LoadConfig reads .env, an optional config.yaml and the environment, in
// increasing order of precedence over the defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	// Hosting platforms inject PORT.
	if err := v.BindEnv("APP_PORT", "APP_PORT", "PORT"); err != nil {
		return nil, err
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)
	cfg.LeakServiceCategories = splitList(cfg.LeakServiceCategories)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	policy := leak.DefaultPolicy()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 60)
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("PLACES_BASE_URL", "https://places.googleapis.com")
	v.SetDefault("PLACES_TIMEOUT", 10*time.Second)
	v.SetDefault("PLACES_RPS", 0)
	v.SetDefault("PLACES_BURST", 1)

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("CLASSIFIER_MODEL", "gemini-1.5-flash")
	v.SetDefault("NARRATIVE_MODEL", "gemini-1.5-flash")
	v.SetDefault("CLASSIFY_TIMEOUT", 8*time.Second)
	v.SetDefault("NARRATIVE_TIMEOUT", 30*time.Second)

	v.SetDefault("LEAK_NO_WEBSITE_MIN", policy.NoWebsite.Min)
	v.SetDefault("LEAK_NO_WEBSITE_MAX", policy.NoWebsite.Max)
	v.SetDefault("LEAK_NO_PHONE_MIN", policy.NoPhone.Min)
	v.SetDefault("LEAK_NO_PHONE_MAX", policy.NoPhone.Max)
	v.SetDefault("LEAK_NO_BOT_MIN", policy.NoBot.Min)
	v.SetDefault("LEAK_NO_BOT_MAX", policy.NoBot.Max)
	v.SetDefault("LEAK_LOW_REVIEWS_PCT_MIN", policy.LowReviewsPct.Min)
	v.SetDefault("LEAK_LOW_REVIEWS_PCT_MAX", policy.LowReviewsPct.Max)
	v.SetDefault("LEAK_MISSING_BOOKING_MIN", policy.MissingBooking.Min)
	v.SetDefault("LEAK_MISSING_BOOKING_MAX", policy.MissingBooking.Max)
	v.SetDefault("LEAK_REVIEW_THRESHOLD", policy.ReviewThreshold)
	v.SetDefault("LEAK_SERVICE_CATEGORIES", policy.ServiceCategories)
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate reports missing credentials.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.GoogleMapsAPIKey) == "" {
		missing = append(missing, "GOOGLE_MAPS_API_KEY")
	}
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LeakPolicy builds the rule engine policy from the LEAK_* keys.
func (c *Config) LeakPolicy() leak.Policy {
	return leak.Policy{
		Currency:          "MXN",
		NoWebsite:         leak.Band{Min: c.LeakNoWebsiteMin, Max: c.LeakNoWebsiteMax},
		NoPhone:           leak.Band{Min: c.LeakNoPhoneMin, Max: c.LeakNoPhoneMax},
		NoBot:             leak.Band{Min: c.LeakNoBotMin, Max: c.LeakNoBotMax},
		LowReviewsPct:     leak.Band{Min: c.LeakLowReviewsPctMin, Max: c.LeakLowReviewsPctMax},
		MissingBooking:    leak.Band{Min: c.LeakMissingBookingMin, Max: c.LeakMissingBookingMax},
		ReviewThreshold:   c.LeakReviewThreshold,
		ServiceCategories: append([]string(nil), c.LeakServiceCategories...),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
