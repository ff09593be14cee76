package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mummysfood/backend/internal/geo"
	"github.com/mummysfood/backend/internal/service"
)

// MockGeocoder is a mock implementation of the Geocoder interface
type MockGeocoder struct {
	mock.Mock
}

var _ service.Geocoder = (*MockGeocoder)(nil)

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, point geo.Point) (*service.Place, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Place), args.Error(1)
}
