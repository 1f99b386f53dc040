package middleware

import (
	"github.com/gofiber/fiber/v2"

	"hr-portal-backend/lib/approval"
	authutils "hr-portal-backend/lib/utils/auth-utils"
	apimodels "hr-portal-backend/models/api"
)

// AdminRequired gates admin-only routes. The claim is issued from the
// allow-list at login time.
func AdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !authutils.IsAdmin(ctx) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("admin access required"))
		}
		return ctx.Next()
	}
}

// GetActor builds the approval actor from the verified token claims.
func GetActor(ctx *fiber.Ctx) approval.Actor {
	return approval.Actor{
		Email:   authutils.GetUserEmail(ctx),
		IsAdmin: authutils.IsAdmin(ctx),
	}
}
