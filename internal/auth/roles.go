package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/policy"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RequireCapability rejects callers whose role does not grant capability.
func RequireCapability(capability policy.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Unauthenticated")
		}
		if !policy.Can(actor.Role, capability) {
			return apperrors.NewForbidden("Forbidden")
		}
		return c.Next()
	}
}
