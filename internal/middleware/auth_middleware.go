package middleware

import (
	"net/http"
	"productInfoAgent/pkg/logger"
	"productInfoAgent/pkg/utils"
	"strconv"
	"strings"

	jsonres "productInfoAgent/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	ContextCustomerID = "customer_id"
	ContextRole       = "role"
	ContextToken      = "token"
)

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", false
	}
	return tokenParts[1], true
}

// setClaims stores the authenticated customer on the context.
func setClaims(c echo.Context, secret, tokenString string) error {
	claims, err := utils.ParseJWT(tokenString, secret)
	if err != nil {
		return err
	}

	customerID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return err
	}

	c.Set(ContextCustomerID, customerID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextToken, tokenString)
	return nil
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenString, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			if err := setClaims(c, secret, tokenString); err != nil {
				logger.Error("Failed to parse JWT", "error", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			return next(c)
		}
	}
}

// OptionalAuth attaches the customer when a valid token is present and lets
// guests through otherwise.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c)
			if !ok {
				return next(c)
			}

			if err := setClaims(c, secret, tokenString); err != nil {
				logger.Debug("optional_auth_ignored", "error", err)
			}

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleStr, ok := c.Get(ContextRole).(string)
			if !ok || strings.ToUpper(roleStr) != "ADMIN" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}
