package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/middleware"
	"sweet-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	router http.Handler
	auth   service.AuthService
	users  *mockUserRepository
	sweets *mockSweetRepository
}

func newTestAPI() *testAPI {
	logger := zap.NewNop()
	users := newMockUserRepository()
	sweets := newMockSweetRepository()
	purchases := newMockPurchaseRepository()

	tokens := service.NewTokenManager("test-secret", time.Hour)
	authService := service.NewAuthService(users, tokens)
	purchaseService := service.NewPurchaseService(purchases, sweets)
	inventory := service.NewInventoryService(sweets, purchaseService, logger)

	authMiddleware := middleware.AuthMiddleware(tokens, logger)
	noLimit := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewAuthHandler(authService, logger).RegisterRoutes(r, authMiddleware, noLimit)
	NewSweetHandler(inventory, logger).RegisterRoutes(r, authMiddleware)
	NewPurchaseHandler(purchaseService, logger).RegisterRoutes(r, authMiddleware)

	return &testAPI{
		router: r,
		auth:   authService,
		users:  users,
		sweets: sweets,
	}
}

// signUp registers an account with the given role and returns its token
func (a *testAPI) signUp(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	ctx := context.Background()

	_, _, err := a.auth.Register(ctx, email, "password123", "Test", "User")
	require.NoError(t, err)

	if role != domain.RoleUser {
		_, err = a.users.UpdateRole(ctx, email, role)
		require.NoError(t, err)
	}

	token, _, err := a.auth.Login(ctx, email, "password123")
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}
