package middleware

import (
	"context"
	"net/http"
	"strings"

	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/pkg/jwt"
	"dentalcare-scheduling/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.log.Debugf("Rejected token: %+v", err)
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := WithIdentity(r.Context(), claims.UserID, entity.Role(claims.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithIdentity stores the authenticated caller in ctx
func WithIdentity(ctx context.Context, userID uuid.UUID, role entity.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleKey, role)
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the caller role from context
func GetRoleFromContext(ctx context.Context) (entity.Role, bool) {
	role, ok := ctx.Value(RoleKey).(entity.Role)
	return role, ok
}
