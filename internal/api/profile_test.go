package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/testhelpers"
	"github.com/mummysfood/backend/internal/types"
)

func TestGetProfile(t *testing.T) {
	a := setupTestAPI(t)
	user := testhelpers.CreateTestUser(t, a.db, false)
	token := testhelpers.CreateTestToken(t, user)

	w := a.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile types.ProfileResponse
	decode(t, w, &profile)
	assert.Equal(t, user.ID, profile.User.ID)
	assert.Empty(t, profile.Addresses)
}

func TestUploadProfilePictureEndpoint(t *testing.T) {
	a := setupTestAPI(t)
	user := testhelpers.CreateTestUser(t, a.db, false)
	token := testhelpers.CreateTestToken(t, user)
	a.images.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything).Return("https://cdn.test/me.png", nil)

	w := a.upload(t, "/api/profile/upload-profile-picture", token, "profilePicture", map[string][]byte{"me.png": pngHeader})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.User
	decode(t, w, &updated)
	assert.Equal(t, "https://cdn.test/me.png", updated.ProfilePicture)

	w = a.upload(t, "/api/profile/upload-profile-picture", token, "avatar", map[string][]byte{"me.png": pngHeader})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	a := setupTestAPI(t)
	for _, path := range []string{"/health", "/api/health"} {
		w := a.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
