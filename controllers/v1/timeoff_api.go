package apiv1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hr-portal-backend/controllers"
	timeoffhandler "hr-portal-backend/lib/timeoff"
	timeoffstore "hr-portal-backend/lib/timeoff/store"
	authutils "hr-portal-backend/lib/utils/auth-utils"
	"hr-portal-backend/middleware"
	"hr-portal-backend/models"
	apimodels "hr-portal-backend/models/api"
	timeoffapimodels "hr-portal-backend/models/api/timeoff"
)

type timeoffApiController struct {
	controllers.BaseAPIController
}

func InitTimeoffApiRouters(app fiber.Router) {
	controller := timeoffApiController{}
	app.Route("timeoff", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("", controller.listMy)
		router.Get("approvals", controller.approvals)
		router.Get("all", middleware.AdminRequired(), controller.listAll)
		router.Get("export", middleware.AdminRequired(), controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Put("approve", controller.approve)
			idRoute.Put("reject", controller.reject)
			idRoute.Post("sync", controller.retrySync)
		})
	})
}

// @Summary Submit a time-off request
// @Tags Time off
// @Description Creates a pending request. The holiday region and working-day count freeze at this point.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 timeoffapimodels.TimeOffData	true	"request body"
// @Success 200 {object} apimodels.Response{data=timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff [post]
func (c *timeoffApiController) create(ctx *fiber.Ctx) error {
	var payload timeoffapimodels.TimeOffData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeoffhandler.Instance.Create(authutils.GetUserEmail(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create time-off request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary My time-off requests
// @Tags Time off
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   year					query		int		false	"filter by start year"
// @Success 200 {object} apimodels.Response{data=[]timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff [get]
func (c *timeoffApiController) listMy(ctx *fiber.Ctx) error {
	year := 0
	if v := ctx.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("year must be a number"))
		}
		year = parsed
	}
	resp, err := timeoffhandler.Instance.ListMy(authutils.GetUserEmail(ctx), year)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list time-off requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Requests awaiting my decision
// @Tags Time off
// @Description Pending requests of my reports, plus manager-approved ones for admins
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]timeoffapimodels.TimeOffView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/approvals [get]
func (c *timeoffApiController) approvals(ctx *fiber.Ctx) error {
	resp, err := timeoffhandler.Instance.ListForApproval(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list requests for approval")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary All time-off requests
// @Tags Time off
// @Description Admin-only listing with optional filters
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"status filter"
// @Param   email					query		string	false	"employee filter"
// @Param   year					query		int		false	"start year filter"
// @Success 200 {object} apimodels.Response{data=[]timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/all [get]
func (c *timeoffApiController) listAll(ctx *fiber.Ctx) error {
	filter, err := c.adminFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeoffhandler.Instance.ListAll(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list time-off requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Export time-off requests
// @Tags Time off
// @Description Admin-only xlsx export of the filtered listing
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"status filter"
// @Param   email					query		string	false	"employee filter"
// @Param   year					query		int		false	"start year filter"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/export [get]
func (c *timeoffApiController) export(ctx *fiber.Ctx) error {
	filter, err := c.adminFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buf, err := timeoffhandler.Instance.ExportXLS(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export time-off requests")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="timeoff_requests.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Time-off request card
// @Tags Time off
// @Description Visible to the owner, the assigned manager and admins
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response{data=timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/{id} [get]
func (c *timeoffApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeoffhandler.Instance.GetByID(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load time-off request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Edit a pending request
// @Tags Time off
// @Description Owner-only, pending requests only. Working days are recomputed with the frozen region.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param	body body	 timeoffapimodels.TimeOffData	true	"request body"
// @Success 200 {object} apimodels.Response{data=timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/{id} [put]
func (c *timeoffApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload timeoffapimodels.TimeOffData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeoffhandler.Instance.Update(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update time-off request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Withdraw a pending request
// @Tags Time off
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/{id} [delete]
func (c *timeoffApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := timeoffhandler.Instance.Delete(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete time-off request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Approve a request
// @Tags Time off
// @Description Manager approval moves pending onward, admin approval finalizes
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response{data=timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/{id}/approve [put]
func (c *timeoffApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeoffhandler.Instance.Approve(ctx.UserContext(), middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to approve time-off request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Reject a request
// @Tags Time off
// @Description Requires a reason. Tier rules mirror approval.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param	body body	 apimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response{data=timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/{id}/reject [put]
func (c *timeoffApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload apimodels.RejectData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeoffhandler.Instance.Reject(ctx.UserContext(), middleware.GetActor(ctx), id, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to reject time-off request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Retry calendar and autoresponder sync
// @Tags Time off
// @Description Re-runs the post-approval side effects after a failed attempt
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response{data=timeoffapimodels.TimeOffView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/timeoff/{id}/sync [post]
func (c *timeoffApiController) retrySync(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeoffhandler.Instance.RetrySync(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to retry the sync")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func (c *timeoffApiController) adminFilter(ctx *fiber.Ctx) (timeoffstore.AdminFilter, error) {
	filter := timeoffstore.AdminFilter{
		Status: models.ApprovalStatus(ctx.Query("status")),
		Email:  ctx.Query("email"),
	}
	if v := ctx.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, errorYearFormat
		}
		filter.Year = year
	}
	return filter, nil
}
