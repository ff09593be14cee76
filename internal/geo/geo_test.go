package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantErr bool
	}{
		{"origin", Point{0, 0}, false},
		{"corners", Point{90, -180}, false},
		{"lat too high", Point{90.1, 0}, true},
		{"lat too low", Point{-91, 0}, true},
		{"lng too high", Point{0, 180.5}, true},
		{"nan", Point{math.NaN(), 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	paris := Point{48.8566, 2.3522}
	london := Point{51.5074, -0.1278}

	assert.Zero(t, Distance(paris, paris))
	assert.InDelta(t, 343.5, Distance(paris, london), 1.0)
	assert.InDelta(t, Distance(paris, london), Distance(london, paris), 1e-9)

	// antipodes are half the circumference apart
	assert.InDelta(t, math.Pi*EarthRadiusKm, Distance(Point{0, 0}, Point{0, 180}), 1e-6)
}

func TestBoundingBoxContainsCircle(t *testing.T) {
	centers := []Point{{0, 0}, {48.85, 2.35}, {-33.9, 151.2}, {64.1, -21.9}, {10, 179.95}}
	radii := []float64{1, 10, 250}

	for _, c := range centers {
		for _, r := range radii {
			box := BoundingBox(c, r)
			// sample points on the circle edge, slightly inside
			for bearing := 0.0; bearing < 360; bearing += 15 {
				p := destination(c, r*0.999, bearing)
				assert.True(t, box.Contains(p), "center %v radius %v bearing %v point %v", c, r, bearing, p)
			}
		}
	}
}

func TestBoundingBoxNearPole(t *testing.T) {
	box := BoundingBox(Point{89.99, 10}, 50)
	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}

func TestBoundingBoxWrapsAntimeridian(t *testing.T) {
	box := BoundingBox(Point{0, 179.99}, 20)
	assert.True(t, box.Wraps())
	assert.True(t, box.Contains(Point{0, -179.99}))
	assert.False(t, box.Contains(Point{0, 0}))
}

// destination returns the point distanceKm from p along bearing degrees
func destination(p Point, distanceKm, bearing float64) Point {
	d := distanceKm / EarthRadiusKm
	b := radians(bearing)
	lat1 := radians(p.Lat)
	lng1 := radians(p.Lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(b))
	lng2 := lng1 + math.Atan2(math.Sin(b)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	lng := degrees(lng2)
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return Point{Lat: degrees(lat2), Lng: lng}
}
