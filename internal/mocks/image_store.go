package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mummysfood/backend/internal/service"
)

// MockImageStore is a mock implementation of the ImageStore interface
type MockImageStore struct {
	mock.Mock
}

var _ service.ImageStore = (*MockImageStore)(nil)

func (m *MockImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}
