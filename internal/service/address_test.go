package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/geo"
	"github.com/mummysfood/backend/internal/mocks"
	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/testhelpers"
	"github.com/mummysfood/backend/internal/types"
)

func setupAddressTest(t *testing.T) (*gorm.DB, *service.AddressService, *mocks.MockGeocoder) {
	db := testhelpers.SetupSQLiteDB(t)
	geocoder := &mocks.MockGeocoder{}
	return db, service.NewAddressService(db, geocoder, testhelpers.Logger()), geocoder
}

func ptr[T any](v T) *T {
	return &v
}

func completeAddress(lat, lng float64) *types.AddressRequest {
	return &types.AddressRequest{
		Street:    "10 Downing Street",
		City:      "London",
		Country:   "UK",
		Latitude:  ptr(lat),
		Longitude: ptr(lng),
	}
}

func activeAddressID(t *testing.T, db *gorm.DB, userID uuid.UUID) *uuid.UUID {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.ActiveAddressID
}

func TestAddAddressActivatesFirst(t *testing.T) {
	db, svc, geocoder := setupAddressTest(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, false)

	first, err := svc.Add(ctx, user.ID, completeAddress(51.5, -0.12))
	require.NoError(t, err)
	assert.Equal(t, "10 Downing Street, London, UK", first.FormattedAddress)
	assert.Equal(t, &first.ID, activeAddressID(t, db, user.ID))

	second, err := svc.Add(ctx, user.ID, completeAddress(51.6, -0.13))
	require.NoError(t, err)
	assert.Equal(t, &first.ID, activeAddressID(t, db, user.ID))

	req := completeAddress(51.7, -0.14)
	req.SetActive = true
	third, err := svc.Add(ctx, user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, &third.ID, activeAddressID(t, db, user.ID))

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, second.ID, list[1].ID)

	geocoder.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything)
}

func TestAddAddressValidatesCoordinates(t *testing.T) {
	db, svc, _ := setupAddressTest(t)
	user := testhelpers.CreateTestUser(t, db, false)

	_, err := svc.Add(context.Background(), user.ID, completeAddress(95, 0))
	assert.True(t, service.IsValidation(err))

	_, err = svc.Add(context.Background(), user.ID, &types.AddressRequest{Street: "x", City: "y"})
	assert.True(t, service.IsValidation(err))
}

func TestAddAddressReverseGeocodesMissingParts(t *testing.T) {
	db, svc, geocoder := setupAddressTest(t)
	user := testhelpers.CreateTestUser(t, db, false)

	geocoder.On("ReverseGeocode", mock.Anything, geo.Point{Lat: 48.8584, Lng: 2.2945}).Return(&service.Place{
		Street:      "5 Avenue Anatole France",
		City:        "Paris",
		PostalCode:  "75007",
		Country:     "France",
		DisplayName: "Tour Eiffel, Paris",
	}, nil)

	addr, err := svc.Add(context.Background(), user.ID, &types.AddressRequest{
		State:     "Ile-de-France",
		Latitude:  ptr(48.8584),
		Longitude: ptr(2.2945),
	})
	require.NoError(t, err)
	assert.Equal(t, "5 Avenue Anatole France", addr.Street)
	assert.Equal(t, "Paris", addr.City)
	assert.Equal(t, "Ile-de-France", addr.State)
	assert.Equal(t, "75007", addr.PostalCode)
	assert.Equal(t, "5 Avenue Anatole France, Paris, Ile-de-France, 75007, France", addr.FormattedAddress)
	geocoder.AssertExpectations(t)
}

func TestAddAddressGeocoderFailure(t *testing.T) {
	db, svc, geocoder := setupAddressTest(t)
	user := testhelpers.CreateTestUser(t, db, false)
	geocoder.On("ReverseGeocode", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Add(context.Background(), user.ID, &types.AddressRequest{Latitude: ptr(1.0), Longitude: ptr(1.0)})
	var upstream *service.UpstreamError
	require.ErrorAs(t, err, &upstream)

	list, _ := svc.List(context.Background(), user.ID)
	assert.Empty(t, list)
}

func TestSetActiveOtherUsersAddress(t *testing.T) {
	db, svc, _ := setupAddressTest(t)
	ctx := context.Background()
	alice := testhelpers.CreateTestUser(t, db, false)
	bob := testhelpers.CreateTestUser(t, db, false)

	mine, err := svc.Add(ctx, alice.ID, completeAddress(1, 1))
	require.NoError(t, err)
	theirs, err := svc.Add(ctx, bob.ID, completeAddress(2, 2))
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, alice.ID, theirs.ID)
	assert.True(t, service.IsNotFound(err))
	assert.Equal(t, &mine.ID, activeAddressID(t, db, alice.ID))

	_, err = svc.Get(ctx, alice.ID, theirs.ID)
	assert.True(t, service.IsNotFound(err))
}

func TestSetActive(t *testing.T) {
	db, svc, _ := setupAddressTest(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, false)

	_, err := svc.Add(ctx, user.ID, completeAddress(1, 1))
	require.NoError(t, err)
	second, err := svc.Add(ctx, user.ID, completeAddress(2, 2))
	require.NoError(t, err)

	got, err := svc.SetActive(ctx, user.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, &second.ID, activeAddressID(t, db, user.ID))
}

func TestDeleteActiveAddressClearsPointer(t *testing.T) {
	db, svc, _ := setupAddressTest(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, false)

	active, err := svc.Add(ctx, user.ID, completeAddress(1, 1))
	require.NoError(t, err)
	other, err := svc.Add(ctx, user.ID, completeAddress(2, 2))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, active.ID))
	assert.Nil(t, activeAddressID(t, db, user.ID))

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)
}

func TestDeleteAddressInUse(t *testing.T) {
	db, svc, _ := setupAddressTest(t)
	ctx := context.Background()
	chef := testhelpers.CreateTestUser(t, db, true)
	addr, err := svc.Add(ctx, chef.ID, completeAddress(1, 1))
	require.NoError(t, err)
	testhelpers.CreateTestMeal(t, db, chef.ID, addr.ID, nil)

	err = svc.Delete(ctx, chef.ID, addr.ID)
	assert.True(t, service.IsValidation(err))
	assert.Equal(t, &addr.ID, activeAddressID(t, db, chef.ID))
}

func TestDeleteOtherUsersAddress(t *testing.T) {
	db, svc, _ := setupAddressTest(t)
	ctx := context.Background()
	alice := testhelpers.CreateTestUser(t, db, false)
	bob := testhelpers.CreateTestUser(t, db, false)
	theirs, err := svc.Add(ctx, bob.ID, completeAddress(2, 2))
	require.NoError(t, err)

	assert.True(t, service.IsNotFound(svc.Delete(ctx, alice.ID, theirs.ID)))
	_, err = svc.Get(ctx, bob.ID, theirs.ID)
	assert.NoError(t, err)
}

func TestUpdateAddress(t *testing.T) {
	db, svc, geocoder := setupAddressTest(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, false)
	addr, err := svc.Add(ctx, user.ID, completeAddress(1, 1))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, addr.ID, &types.UpdateAddressRequest{
		Street:     ptr("11 Downing Street"),
		PostalCode: ptr("SW1A 2AB"),
	})
	require.NoError(t, err)
	assert.Equal(t, "11 Downing Street", updated.Street)
	assert.Equal(t, "SW1A 2AB", updated.PostalCode)
	assert.Equal(t, "11 Downing Street, London, SW1A 2AB, UK", updated.FormattedAddress)
	assert.Equal(t, 1.0, updated.Latitude)

	_, err = svc.Update(ctx, user.ID, addr.ID, &types.UpdateAddressRequest{Longitude: ptr(200.0)})
	assert.True(t, service.IsValidation(err))

	// clearing the city triggers a lookup for it
	geocoder.On("ReverseGeocode", mock.Anything, geo.Point{Lat: 1, Lng: 1}).Return(&service.Place{City: "Nowhere"}, nil).Once()
	updated, err = svc.Update(ctx, user.ID, addr.ID, &types.UpdateAddressRequest{City: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Nowhere", updated.City)
	geocoder.AssertExpectations(t)
}
