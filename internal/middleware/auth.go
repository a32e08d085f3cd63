package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartpark/carwash-api/internal/repository"
	"github.com/smartpark/carwash-api/internal/utils"
)

// SessionAuth returns an Echo middleware that gates every non-auth endpoint
// behind a bearer session token. The token must verify against the signing
// secret, must not be expired, and the user it is bound to must still exist.
// On success the authenticated user id is stored in the request context
// under "user_id" so downstream handlers can stamp it onto created rows.
//
// Expired tokens produce a distinct "token expired" message for diagnostics;
// every failure surfaces as 401 to the caller.
func SessionAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			userID, err := utils.VerifySessionToken(secret, raw)
			if err != nil {
				if err == utils.ErrTokenExpired {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// The user referenced by the token must still exist.
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			if _, err := users.GetByID(ctx, userID); err != nil {
				if err == sql.ErrNoRows {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth check failed"})
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}
