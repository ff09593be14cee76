package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mummysfood/backend/internal/geo"
)

// Place is the postal address of a point
type Place struct {
	Street      string
	City        string
	State       string
	PostalCode  string
	Country     string
	DisplayName string
}

// NominatimGeocoder reverse-geocodes against a Nominatim-compatible endpoint
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       *zap.SugaredLogger
}

var _ Geocoder = (*NominatimGeocoder)(nil)

// NewNominatimGeocoder creates a new NominatimGeocoder instance
func NewNominatimGeocoder(baseURL, userAgent string, log *zap.SugaredLogger) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		Country     string `json:"country"`
	} `json:"address"`
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, point geo.Point) (*Place, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return nil, &UpstreamError{Service: "geocoder", Err: err}
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Errorw("reverse geocode request failed", "lat", point.Lat, "lng", point.Lng, "error", err)
		return nil, &UpstreamError{Service: "geocoder", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		g.log.Errorw("reverse geocode returned error status", "lat", point.Lat, "lng", point.Lng, "status", resp.StatusCode)
		return nil, &UpstreamError{Service: "geocoder", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &UpstreamError{Service: "geocoder", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if body.Error != "" {
		return nil, &UpstreamError{Service: "geocoder", Err: fmt.Errorf("%s", body.Error)}
	}

	a := body.Address
	street := strings.TrimSpace(strings.Join(nonEmpty(a.HouseNumber, a.Road), " "))
	return &Place{
		Street:      street,
		City:        firstNonEmpty(a.City, a.Town, a.Village),
		State:       a.State,
		PostalCode:  a.Postcode,
		Country:     a.Country,
		DisplayName: body.DisplayName,
	}, nil
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
