package apiv1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hr-portal-backend/controllers"
	"hr-portal-backend/lib/workday"
	apimodels "hr-portal-backend/models/api"
	workdayapimodels "hr-portal-backend/models/api/workday"
)

type workdayApiController struct {
	controllers.BaseAPIController
}

func InitWorkdayApiRouters(app fiber.Router) {
	controller := workdayApiController{}
	app.Route("workdays", func(router fiber.Router) {
		router.Get("breakdown", controller.breakdown)
		router.Get("holidays/:year", controller.holidays)
		router.Get("regions", controller.regions)
	})
}

// @Summary Working-day breakdown
// @Tags Working days
// @Description Decomposes a date span into working, weekend and holiday days for a regional calendar. Backs the request form preview.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   start					query		string	true	"start date, YYYY-MM-DD"
// @Param   end					query		string	true	"end date, YYYY-MM-DD"
// @Param   region				query		string	true	"holiday region code"
// @Success 200 {object} apimodels.Response{data=workdayapimodels.BreakdownView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workdays/breakdown [get]
func (c *workdayApiController) breakdown(ctx *fiber.Ctx) error {
	start, err := apimodels.ParseDate("start", ctx.Query("start"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invalid date range")
	}
	end, err := apimodels.ParseDate("end", ctx.Query("end"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invalid date range")
	}
	region := ctx.Query("region")
	if region != "" && !workday.IsKnownRegion(region) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("unknown holiday region: " + region))
	}
	resp := workdayapimodels.ConvertBreakdown(region, workday.BreakdownRange(start, end, region))
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Holiday calendar
// @Tags Working days
// @Description Lists the holidays of one region for a year
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   year					path		int		true	"year"
// @Param   region				query		string	true	"holiday region code"
// @Success 200 {object} apimodels.Response{data=[]workdayapimodels.HolidayView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workdays/holidays/{year} [get]
func (c *workdayApiController) holidays(ctx *fiber.Ctx) error {
	year, err := strconv.Atoi(ctx.Params("year"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("year must be a number"))
	}
	region := ctx.Query("region")
	if !workday.IsKnownRegion(region) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("unknown holiday region: " + region))
	}
	holidays := workday.YearHolidays(year, region)
	resp := make([]workdayapimodels.HolidayView, 0, len(holidays))
	for _, h := range holidays {
		resp = append(resp, workdayapimodels.HolidayView{
			Date: apimodels.FormatDate(h.Date),
			Name: h.Name,
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Assignable holiday regions
// @Tags Working days
// @Description Lists the region codes an employee can be assigned to
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]workdayapimodels.RegionView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workdays/regions [get]
func (c *workdayApiController) regions(ctx *fiber.Ctx) error {
	regions := workday.AvailableRegions()
	resp := make([]workdayapimodels.RegionView, 0, len(regions))
	for _, r := range regions {
		resp = append(resp, workdayapimodels.RegionView{Code: r.Code, Name: r.Name})
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
