package middleware

import (
	"net/http"
	"productInfoAgent/domain"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const ContextSessionID = "session_id"

// SessionMiddleware reads the storefront session cookie, issuing a new one
// when the browser has none.
func SessionMiddleware(cookieName string, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				c.Set(ContextSessionID, cookie.Value)
				return next(c)
			}

			sessionID := uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Path:     "/",
				Expires:  time.Now().Add(ttl),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(ContextSessionID, sessionID)

			return next(c)
		}
	}
}

// Identity returns the customer when authenticated, else the session.
func Identity(c echo.Context) domain.Identity {
	var identity domain.Identity
	if id, ok := c.Get(ContextCustomerID).(uint64); ok {
		identity.CustomerID = &id
	}
	if sid, ok := c.Get(ContextSessionID).(string); ok {
		identity.SessionID = sid
	}
	return identity
}
