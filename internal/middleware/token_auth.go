package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/pkg/logger"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserContextKey is where the authenticated claims are stored on echo.Context.
const UserContextKey = "user"

// TokenAuthMiddleware checks for a valid, unrevoked bearer token and extracts
// user claims. Both "Bearer <token>" and "Token <token>" are accepted.
func TokenAuthMiddleware(jwtSecret string, tokens repositories.TokenRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided")
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			switch strings.ToLower(parts[0]) {
			case "bearer", "token":
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid || claims.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			exists, err := tokens.TokenExists(c.Request().Context(), claims.ID)
			if err != nil {
				logger.Log.Error("token lookup failed", zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify token")
			}
			if !exists {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserContextKey, claims)

			return next(c)
		}
	}
}
