package middleware

import (
	"net/http"

	"sweet-shop/internal/domain"

	"go.uber.org/zap"
)

// AccessLevel is the minimum caller standing a route requires
type AccessLevel int

const (
	AccessPublic AccessLevel = iota
	AccessAuthenticated
	AccessAdmin
)

func (l AccessLevel) String() string {
	switch l {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Authorize decides whether a caller with role may use a route at level required.
// An empty role means the request carried no verified token.
func Authorize(required AccessLevel, role domain.Role) error {
	if required == AccessPublic {
		return nil
	}

	if !role.Valid() {
		return domain.Unauthorized("authentication required")
	}

	if required == AccessAdmin && role != domain.RoleAdmin {
		return domain.Forbidden("admin access required")
	}

	return nil
}

// RequireAccess applies Authorize to every request using the role AuthMiddleware stored
func RequireAccess(level AccessLevel, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetUserRole(r.Context())

			if err := Authorize(level, role); err != nil {
				logger.Warn("Access denied",
					zap.String("path", r.URL.Path),
					zap.String("required", level.String()),
					zap.String("role", string(role)),
				)
				RespondWithServiceError(w, logger, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
