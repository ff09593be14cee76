package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s stubValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, service.ErrInvalidToken
	}
	return s.claims, s.err
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	tests := []struct {
		name      string
		header    string
		validator stubValidator
		status    int
	}{
		{"valid token", "Bearer good", stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "ada"}}, http.StatusOK},
		{"lowercase scheme", "bearer good", stubValidator{claims: &types.TokenClaims{UserID: userID}}, http.StatusOK},
		{"missing header", "", stubValidator{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic good", stubValidator{}, http.StatusUnauthorized},
		{"bad token", "Bearer bad", stubValidator{}, http.StatusUnauthorized},
		{"session store down", "Bearer good", stubValidator{err: &service.UpstreamError{Service: "session store", Err: errors.New("down")}}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", AuthMiddleware(tt.validator), func(c *gin.Context) {
				id, ok := UserID(c)
				assert.True(t, ok)
				claims, ok := Claims(c)
				assert.True(t, ok)
				assert.Equal(t, id, claims.UserID)
				c.String(http.StatusOK, id.String())
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}
