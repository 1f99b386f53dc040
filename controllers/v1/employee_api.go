package apiv1

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"hr-portal-backend/controllers"
	balancehandler "hr-portal-backend/lib/balance"
	employeehandler "hr-portal-backend/lib/employee"
	employeestore "hr-portal-backend/lib/employee/store"
	authutils "hr-portal-backend/lib/utils/auth-utils"
	"hr-portal-backend/lib/utils/helpers"
	workspacesync "hr-portal-backend/lib/workspace/sync"
	"hr-portal-backend/middleware"
	apimodels "hr-portal-backend/models/api"
	employeeapimodels "hr-portal-backend/models/api/employee"
)

type employeeApiController struct {
	controllers.BaseAPIController
}

func InitEmployeeApiRouters(app fiber.Router) {
	controller := employeeApiController{}
	app.Route("employees", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("sync", middleware.AdminRequired(), controller.sync)
		router.Route(":email", func(emailRoute fiber.Router) {
			emailRoute.Get("", controller.get)
			emailRoute.Put("", middleware.AdminRequired(), controller.update)
			emailRoute.Get("vacation-summary", controller.vacationSummary)
		})
	})
}

// @Summary Employee directory
// @Tags Employees
// @Description Lists employees, optionally filtered by department or search term
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   department			query		string	false	"department filter"
// @Param   search				query		string	false	"name or email substring"
// @Param   include_inactive	query		bool	false	"include deactivated employees"
// @Success 200 {object} apimodels.Response{data=[]employeeapimodels.EmployeeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees [get]
func (c *employeeApiController) list(ctx *fiber.Ctx) error {
	filter := employeestore.ListFilter{
		ActiveOnly: ctx.Query("include_inactive") != "true",
		Department: ctx.Query("department"),
		Search:     ctx.Query("search"),
	}
	resp, err := employeehandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list employees")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Employee card
// @Tags Employees
// @Description Returns one employee by email
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email					path		string	true	"employee email"
// @Success 200 {object} apimodels.Response{data=employeeapimodels.EmployeeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees/{email} [get]
func (c *employeeApiController) get(ctx *fiber.Ctx) error {
	resp, err := employeehandler.Instance.GetByEmail(ctx.Params("email"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load employee")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update HR-managed attributes
// @Tags Employees
// @Description Admin-only edit of manager, allowance, holiday region and similar fields
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email					path		string	true	"employee email"
// @Param	body body	 employeeapimodels.EmployeeUpdateData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees/{email} [put]
func (c *employeeApiController) update(ctx *fiber.Ctx) error {
	var payload employeeapimodels.EmployeeUpdateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err := employeehandler.Instance.Update(ctx.Params("email"), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update employee")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Vacation balance
// @Tags Employees
// @Description Rebuilds the balance from approved requests for the given year
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email					path		string	true	"employee email"
// @Param   year					query		int		false	"year, defaults to the current one"
// @Success 200 {object} apimodels.Response{data=employeeapimodels.VacationSummaryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees/{email}/vacation-summary [get]
func (c *employeeApiController) vacationSummary(ctx *fiber.Ctx) error {
	email := helpers.NormalizeEmail(ctx.Params("email"))
	if email != helpers.NormalizeEmail(authutils.GetUserEmail(ctx)) && !authutils.IsAdmin(ctx) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("access to another employee's balance is admin-only"))
	}
	year := time.Now().Year()
	if v := ctx.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("year must be a number"))
		}
		year = parsed
	}
	resp, err := balancehandler.Instance.Summary(email, year)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to compute vacation balance")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Trigger a directory sync
// @Tags Employees
// @Description Refreshes the employee table from the workspace directory
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=int}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees/sync [post]
func (c *employeeApiController) sync(ctx *fiber.Ctx) error {
	synced, err := workspacesync.Instance.SyncDirectory(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to sync the directory")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(synced))
}
