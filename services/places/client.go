// Package places resolves a free-text business name against the Google
// Places API (New) and normalizes the match into a models.BusinessProfile.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://places.googleapis.com"

	searchFieldMask  = "places.id"
	detailsFieldMask = "id,displayName,formattedAddress,internationalPhoneNumber,websiteUri,rating,userRatingCount,googleMapsUri,types"

	maxErrorBody = 2048
)

// HTTPDoer lets tests swap the transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a thin REST client for the two Places endpoints the audit needs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithRateLimit caps outbound calls per second across all requests.
// rps <= 0 disables the limiter.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchTextRequest struct {
	TextQuery string `json:"textQuery"`
}

type searchTextResponse struct {
	Places []struct {
		ID string `json:"id"`
	} `json:"places"`
}

// PlaceDetails mirrors the detail fields requested by detailsFieldMask.
type PlaceDetails struct {
	ID          string `json:"id"`
	DisplayName *struct {
		Text         string `json:"text"`
		LanguageCode string `json:"languageCode"`
	} `json:"displayName"`
	FormattedAddress         string   `json:"formattedAddress"`
	InternationalPhoneNumber string   `json:"internationalPhoneNumber"`
	WebsiteURI               string   `json:"websiteUri"`
	Rating                   *float64 `json:"rating"`
	UserRatingCount          *int     `json:"userRatingCount"`
	GoogleMapsURI            string   `json:"googleMapsUri"`
	Types                    []string `json:"types"`
}

// SearchText returns the id of the first place matching query, or ErrNotFound.
func (c *Client) SearchText(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(searchTextRequest{TextQuery: query})
	if err != nil {
		return "", &ResolutionError{Stage: "search", Err: err}
	}

	var resp searchTextResponse
	if err := c.do(ctx, "search", http.MethodPost, c.baseURL+"/v1/places:searchText", searchFieldMask, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Places) == 0 {
		return "", ErrNotFound
	}
	id := strings.TrimSpace(resp.Places[0].ID)
	if id == "" {
		return "", &ResolutionError{Stage: "search", Err: errors.New("first result has no id")}
	}
	return id, nil
}

// Details fetches the fixed detail field set for one place id.
func (c *Client) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	var resp PlaceDetails
	endpoint := c.baseURL + "/v1/places/" + url.PathEscape(placeID)
	if err := c.do(ctx, "details", http.MethodGet, endpoint, detailsFieldMask, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, stage, method, endpoint, fieldMask string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &ResolutionError{Stage: stage, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &ResolutionError{Stage: stage, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ResolutionError{Stage: stage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ResolutionError{
			Stage:      stage,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(snippet))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ResolutionError{Stage: stage, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
