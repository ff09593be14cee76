package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/testhelpers"
	"github.com/mummysfood/backend/internal/types"
)

func TestAddressEndpoints(t *testing.T) {
	a := setupTestAPI(t)
	user := testhelpers.CreateTestUser(t, a.db, false)
	other := testhelpers.CreateTestUser(t, a.db, false)
	token := testhelpers.CreateTestToken(t, user)
	otherToken := testhelpers.CreateTestToken(t, other)

	a.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything).Return(&service.Place{
		Street:     "5 Market Street",
		City:       "Lagos",
		Country:    "Nigeria",
		PostalCode: "100001",
	}, nil)

	w := a.do(t, http.MethodPost, "/api/addresses", token, map[string]interface{}{"street": "1 Broad St"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errBody map[string]string
	decode(t, w, &errBody)
	assert.Equal(t, "latitude", errBody["field"])

	w = a.do(t, http.MethodPost, "/api/addresses", token, types.AddressRequest{Latitude: ptr(6.45), Longitude: ptr(3.39)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first models.Address
	decode(t, w, &first)
	assert.Equal(t, "Lagos", first.City)

	w = a.do(t, http.MethodPost, "/api/addresses", token, types.AddressRequest{
		Street: "2 Marina", City: "Lagos", Country: "Nigeria", Latitude: ptr(6.44), Longitude: ptr(3.40),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var second models.Address
	decode(t, w, &second)

	w = a.do(t, http.MethodGet, "/api/addresses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []models.Address `json:"data"`
	}
	decode(t, w, &list)
	require.Len(t, list.Data, 2)
	assert.Equal(t, first.ID, list.Data[0].ID)

	w = a.do(t, http.MethodGet, "/api/addresses/"+first.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodPost, "/api/addresses/"+second.ID.String()+"/active", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile types.ProfileResponse
	decode(t, w, &profile)
	require.NotNil(t, profile.ActiveAddress)
	assert.Equal(t, second.ID, profile.ActiveAddress.ID)

	w = a.do(t, http.MethodPut, "/api/addresses/"+second.ID.String(), token, types.UpdateAddressRequest{Street: ptr("3 Marina")})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &second)
	assert.Equal(t, "3 Marina, Lagos, Nigeria", second.FormattedAddress)

	w = a.do(t, http.MethodDelete, "/api/addresses/"+second.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/profile", token, nil)
	decode(t, w, &profile)
	assert.Nil(t, profile.ActiveAddress)
	assert.Len(t, profile.Addresses, 1)
}

func TestAddressGeocoderDown(t *testing.T) {
	a := setupTestAPI(t)
	user := testhelpers.CreateTestUser(t, a.db, false)
	token := testhelpers.CreateTestToken(t, user)
	a.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything).
		Return(nil, &service.UpstreamError{Service: "geocoder", Err: assert.AnError})

	w := a.do(t, http.MethodPost, "/api/addresses", token, types.AddressRequest{Latitude: ptr(1.0), Longitude: ptr(1.0)})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
