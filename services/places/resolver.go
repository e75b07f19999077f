package places

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Envapa08241978/soynexo-servidor-final/models"
)

// Resolver turns a business name and optional city into a BusinessProfile.
type Resolver struct {
	client  *Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewResolver(client *Client, timeout time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{client: client, timeout: timeout, logger: logger}
}

// BuildQuery joins name and locality the way the directory expects. A blank
// city is left out entirely.
func BuildQuery(name, city string) string {
	name = strings.TrimSpace(name)
	city = strings.TrimSpace(city)
	if city == "" {
		return name
	}
	return name + " en " + city
}

// Resolve runs the search then details calls. It returns ErrNotFound when the
// search has no results and a *ResolutionError for any transport or format
// failure on either call.
func (r *Resolver) Resolve(ctx context.Context, name, city string) (*models.BusinessProfile, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	query := BuildQuery(name, city)
	placeID, err := r.client.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("places search matched", zap.String("query", query), zap.String("placeID", placeID))

	details, err := r.client.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return normalize(details), nil
}

// normalize settles every optional field explicitly. The directory never
// reports an automated reply channel, so AutoResponder is always Absent.
func normalize(d *PlaceDetails) *models.BusinessProfile {
	profile := &models.BusinessProfile{
		Address:       d.FormattedAddress,
		Phone:         models.PresenceOf(strings.TrimSpace(d.InternationalPhoneNumber)),
		Website:       models.PresenceOf(strings.TrimSpace(d.WebsiteURI)),
		AutoResponder: models.Absent(),
		MapURI:        d.GoogleMapsURI,
		Categories:    []string{},
	}
	if d.DisplayName != nil {
		profile.Name = d.DisplayName.Text
	}
	if d.Rating != nil && *d.Rating > 0 {
		profile.Rating = *d.Rating
	}
	if d.UserRatingCount != nil && *d.UserRatingCount > 0 {
		profile.ReviewCount = *d.UserRatingCount
	}
	if len(d.Types) > 0 {
		profile.Categories = append(profile.Categories, d.Types...)
	}
	return profile
}
