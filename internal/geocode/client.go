// Package geocode resolves shipping addresses to coordinates and back
// using a Nominatim-compatible service.
package geocode

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// minAddressLength is the shortest full address worth sending to the geocoder.
const minAddressLength = 10

// Geocoder resolves addresses.
type Geocoder interface {
	Forward(ctx context.Context, billing model.BillingDetails) (*model.Coordinates, error)
	Reverse(ctx context.Context, coords model.Coordinates) (*ReverseResult, error)
}

// ReverseResult is an address suggestion for a pair of coordinates.
type ReverseResult struct {
	Address     string            `json:"address"`
	City        string            `json:"city"`
	Pincode     string            `json:"pincode"`
	Coordinates model.Coordinates `json:"coordinates"`
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseResponse struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	Address     *address `json:"address"`
	Error       string   `json:"error"`
}

type address struct {
	HouseNumber   string `json:"house_number"`
	Building      string `json:"building"`
	Office        string `json:"office"`
	Road          string `json:"road"`
	Pedestrian    string `json:"pedestrian"`
	Street        string `json:"street"`
	Residential   string `json:"residential"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	Hamlet        string `json:"hamlet"`
	Village       string `json:"village"`
	City          string `json:"city"`
	Town          string `json:"town"`
	County        string `json:"county"`
	StateDistrict string `json:"state_district"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
}

// Client is a rate-limited Nominatim client.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient creates a geocoding client. Requests are spaced to
// cfg.RateLimit per second as the public service requires.
func NewClient(cfg config.GeocoderConfig, logger zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    http,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:  logger.With().Str("component", "geocoder").Logger(),
	}
}

// Forward returns the coordinates of the billing address.
func (c *Client) Forward(ctx context.Context, billing model.BillingDetails) (*model.Coordinates, error) {
	full := strings.TrimSpace(billing.FullAddress())
	if len(full) < minAddressLength {
		return nil, model.ErrAddressIncomplete
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, model.ErrGeocoderUnavailable.Wrap(err)
	}

	var results []searchResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      full,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		c.logger.Error().Err(err).Msg("geocoding request failed")
		return nil, model.ErrGeocoderUnavailable.Wrap(err)
	}
	if resp.IsError() {
		c.logger.Error().Int("status", resp.StatusCode()).Msg("geocoder returned an error")
		return nil, model.ErrGeocoderUnavailable.Wrap(fmt.Errorf("geocoder status %d", resp.StatusCode()))
	}

	if len(results) == 0 {
		c.logger.Info().Str("city", billing.City).Str("pincode", billing.Pincode).Msg("address not found")
		return nil, model.ErrAddressNotFound
	}

	coords, err := parseCoordinates(results[0].Lat, results[0].Lon)
	if err != nil {
		return nil, model.ErrAddressNotFound.Wrap(err)
	}

	return coords, nil
}

// Reverse suggests an address for coords.
func (c *Client) Reverse(ctx context.Context, coords model.Coordinates) (*ReverseResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, model.ErrGeocoderUnavailable.Wrap(err)
	}

	var body reverseResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    strconv.FormatFloat(coords.Lat, 'f', -1, 64),
			"lon":    strconv.FormatFloat(coords.Lng, 'f', -1, 64),
			"format": "json",
		}).
		SetResult(&body).
		Get("/reverse")
	if err != nil {
		c.logger.Error().Err(err).Msg("reverse geocoding request failed")
		return nil, model.ErrGeocoderUnavailable.Wrap(err)
	}
	if resp.IsError() {
		return nil, model.ErrGeocoderUnavailable.Wrap(fmt.Errorf("geocoder status %d", resp.StatusCode()))
	}

	if body.Address == nil {
		return nil, model.ErrAddressNotFound
	}

	result := &ReverseResult{
		Address:     cleanAddress(body.Address, body.DisplayName),
		City:        firstNonEmpty(body.Address.City, body.Address.Town, body.Address.County, body.Address.StateDistrict, body.Address.Village),
		Pincode:     body.Address.Postcode,
		Coordinates: coords,
	}
	if parsed, err := parseCoordinates(body.Lat, body.Lon); err == nil {
		result.Coordinates = *parsed
	}

	return result, nil
}

// cleanAddress builds a short address line from door number, street and
// locality. When those are too thin it falls back to the first five parts
// of the display name.
func cleanAddress(a *address, displayName string) string {
	door := firstNonEmpty(a.HouseNumber, a.Building, a.Office)
	street := firstNonEmpty(a.Road, a.Pedestrian, a.Street, a.Residential)
	locality := firstNonEmpty(a.Suburb, a.Neighbourhood, a.Hamlet, a.Village)

	var parts []string
	if door != "" {
		parts = append(parts, door)
	}
	if street != "" {
		parts = append(parts, street)
		if locality != "" {
			parts = append(parts, locality)
		}
	}
	cleaned := strings.Join(parts, ", ")

	if len(cleaned) < minAddressLength || (door == "" && street == "") {
		var display []string
		for _, p := range strings.Split(displayName, ",") {
			if p = strings.TrimSpace(p); p != "" {
				display = append(display, p)
			}
		}
		if len(display) > 5 {
			display = display[:5]
		}
		cleaned = strings.Join(display, ", ")

		if len(cleaned) < minAddressLength && locality != "" {
			cleaned = locality
		}
	}

	if cleaned == "" {
		cleaned = a.Country
	}
	return cleaned
}

func parseCoordinates(lat, lon string) (*model.Coordinates, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}
	return &model.Coordinates{Lat: la, Lng: lo}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
