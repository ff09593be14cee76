package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/cart"
	"github.com/mummysfood/backend/internal/mocks"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/testhelpers"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testAPI struct {
	router   *gin.Engine
	db       *gorm.DB
	geocoder *mocks.MockGeocoder
	images   *mocks.MockImageStore
}

// setupTestAPI wires the real services over an in-memory database
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDB(t)
	log := testhelpers.Logger()
	geocoder := &mocks.MockGeocoder{}
	store := &mocks.MockImageStore{}
	images := service.NewImageService(store, log)

	svc := &Services{
		Auth:    service.NewAuthService(db, testhelpers.TestJWTSecret, time.Hour, service.NewMemoryTokenRevoker(), log),
		Profile: service.NewProfileService(db, images),
		Address: service.NewAddressService(db, geocoder, log),
		Meal:    service.NewMealService(db, images, log),
		Cart:    service.NewCartService(db, cart.NewMemoryStore(time.Hour)),
	}

	router := gin.New()
	RegisterRoutes(router, db, svc, Limiters{})
	return &testAPI{router: router, db: db, geocoder: geocoder, images: store}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// upload posts files under a single multipart field
func (a *testAPI) upload(t *testing.T, path, token, field string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func ptr[T any](v T) *T {
	return &v
}
