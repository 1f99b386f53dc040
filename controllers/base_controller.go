package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hr-portal-backend/apperrors"
	authutils "hr-portal-backend/lib/utils/auth-utils"
	apimodels "hr-portal-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse request body")
		return errors.New("failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("record id is not specified")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("user", authutils.GetUserEmail(ctx))
}

// SendError maps classified handler errors onto HTTP statuses. Anything
// unclassified is an internal error and only the fallback message leaves
// the process.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, fallbackMsg string) error {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		logger.WithError(err).Error(fallbackMsg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(fallbackMsg))
	}
	status := fiber.StatusBadRequest
	switch kind {
	case apperrors.KindPermissionDenied:
		status = fiber.StatusForbidden
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
	case apperrors.KindInvalidState, apperrors.KindConflict:
		status = fiber.StatusConflict
	}
	return ctx.Status(status).JSON(apimodels.NewErrorWithCode(string(kind), err.Error()))
}
