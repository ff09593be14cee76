package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mummysfood/backend/internal/geo"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/testhelpers"
)

func TestNominatimReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "51.5034", r.URL.Query().Get("lat"))
		assert.Equal(t, "-0.1276", r.URL.Query().Get("lon"))
		assert.Equal(t, "mummysfood-test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "10, Downing Street, London, SW1A 2AA, United Kingdom",
			"address": {
				"house_number": "10",
				"road": "Downing Street",
				"town": "London",
				"state": "England",
				"postcode": "SW1A 2AA",
				"country": "United Kingdom"
			}
		}`))
	}))
	defer server.Close()

	g := service.NewNominatimGeocoder(server.URL+"/", "mummysfood-test", testhelpers.Logger())
	place, err := g.ReverseGeocode(context.Background(), geo.Point{Lat: 51.5034, Lng: -0.1276})
	require.NoError(t, err)
	assert.Equal(t, "10 Downing Street", place.Street)
	assert.Equal(t, "London", place.City)
	assert.Equal(t, "England", place.State)
	assert.Equal(t, "SW1A 2AA", place.PostalCode)
	assert.Equal(t, "United Kingdom", place.Country)
}

func TestNominatimReverseGeocodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"error body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error": "Unable to geocode"}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			g := service.NewNominatimGeocoder(server.URL, "mummysfood-test", testhelpers.Logger())
			_, err := g.ReverseGeocode(context.Background(), geo.Point{Lat: 1, Lng: 1})
			var upstream *service.UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, "geocoder", upstream.Service)
		})
	}
}
