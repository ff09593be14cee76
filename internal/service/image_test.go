package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mummysfood/backend/internal/mocks"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/testhelpers"
)

func TestImageUpload(t *testing.T) {
	store := &mocks.MockImageStore{}
	svc := service.NewImageService(store, testhelpers.Logger())

	var gotKey string
	store.On("Put", mock.Anything, mock.Anything, "image/png", pngHeader).
		Run(func(args mock.Arguments) { gotKey = args.String(1) }).
		Return("https://cdn.test/img.png", nil)

	url, err := svc.Upload(context.Background(), "meals/abc", &service.Upload{Filename: "photo.jpeg", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/img.png", url)
	assert.True(t, strings.HasPrefix(gotKey, "meals/abc/"), gotKey)
	assert.True(t, strings.HasSuffix(gotKey, ".png"), "extension follows the sniffed type: %s", gotKey)
	store.AssertExpectations(t)
}

func TestImageUploadRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("hello world")},
		{"too large", append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, service.MaxImageSize)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.MockImageStore{}
			svc := service.NewImageService(store, testhelpers.Logger())

			_, err := svc.Upload(context.Background(), "x", &service.Upload{Filename: "f", Data: tt.data})
			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "file", ve.Field)
			store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestImageUploadStoreFailure(t *testing.T) {
	store := &mocks.MockImageStore{}
	svc := service.NewImageService(store, testhelpers.Logger())
	cause := errors.New("bucket gone")
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", cause)

	_, err := svc.Upload(context.Background(), "x", &service.Upload{Filename: "a.png", Data: pngHeader})
	var upstream *service.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorIs(t, err, cause)
}
