package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		level AccessLevel
		role  domain.Role
		want  error
	}{
		{AccessPublic, "", nil},
		{AccessPublic, domain.RoleUser, nil},
		{AccessAuthenticated, "", domain.ErrUnauthorized},
		{AccessAuthenticated, domain.RoleUser, nil},
		{AccessAuthenticated, domain.RoleAdmin, nil},
		{AccessAdmin, "", domain.ErrUnauthorized},
		{AccessAdmin, domain.RoleUser, domain.ErrForbidden},
		{AccessAdmin, domain.RoleAdmin, nil},
		{AccessAdmin, "superuser", domain.ErrUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.level.String()+"/"+string(tc.role), func(t *testing.T) {
			err := Authorize(tc.level, tc.role)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRequireAccess_UnauthorizedVersusForbidden(t *testing.T) {
	tokens := service.NewTokenManager(testSecret, time.Hour)
	handler := protected(AccessAdmin, tokens)

	userToken, err := tokens.Issue(&domain.User{ID: uuid.New(), Role: domain.RoleUser})
	require.NoError(t, err)
	adminToken, err := tokens.Issue(&domain.User{ID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		want   int
	}{
		"anonymous": {"", http.StatusUnauthorized},
		"user":      {"Bearer " + userToken, http.StatusForbidden},
		"admin":     {"Bearer " + adminToken, http.StatusOK},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/sweets", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}
