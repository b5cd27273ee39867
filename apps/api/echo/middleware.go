package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/role"
	"github.com/darasahq/darasa/core/session"
)

// sessionMiddleware binds every authenticated request to a live session.
// The request itself counts as tracked activity. A request against a wiped
// session is not an application error: the client just gets sent back to the
// login entry point.
func sessionMiddleware(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			sid, err := uuid.Parse(claims.SessionID)
			if err != nil {
				return errUnauthorized
			}
			if !sessions.Touch(sid) {
				return errSessionExpired
			}
			return next(ctx)
		}
	}
}

// capabilityMiddleware gates an endpoint on a single capability, evaluated
// from the caller's role through the permission matrix. Handlers never check
// roles themselves.
func capabilityMiddleware(c role.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if role.CapabilitiesFor(role.Role(claims.Role)).Allows(c) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
