package apiv1

import (
	"io"
	"path"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hr-portal-backend/controllers"
	triphandler "hr-portal-backend/lib/trip"
	tripstore "hr-portal-backend/lib/trip/store"
	"hr-portal-backend/middleware"
	"hr-portal-backend/models"
	apimodels "hr-portal-backend/models/api"
	tripapimodels "hr-portal-backend/models/api/trip"
)

type tripApiController struct {
	controllers.BaseAPIController
}

func InitTripApiRouters(app fiber.Router) {
	controller := tripApiController{}
	app.Route("trips", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("", controller.listMy)
		router.Get("approvals", controller.approvals)
		router.Get("all", middleware.AdminRequired(), controller.listAll)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Put("approve", controller.approve)
			idRoute.Put("reject", controller.reject)
			idRoute.Post("receipts", controller.uploadReceipt)
			idRoute.Post("justifications", controller.submitJustification)
			idRoute.Put("justifications/:justification_id/review", middleware.AdminRequired(), controller.reviewJustification)
			idRoute.Get("documents/:doc", controller.getDocument)
		})
	})
}

// @Summary Submit a trip request
// @Tags Business trips
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 tripapimodels.TripData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.TripView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips [post]
func (c *tripApiController) create(ctx *fiber.Ctx) error {
	var payload tripapimodels.TripData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := triphandler.Instance.Create(middleware.GetActor(ctx).Email, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create trip request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary My trip requests
// @Tags Business trips
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]tripapimodels.TripView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips [get]
func (c *tripApiController) listMy(ctx *fiber.Ctx) error {
	resp, err := triphandler.Instance.ListMy(middleware.GetActor(ctx).Email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list trip requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Trips awaiting my decision
// @Tags Business trips
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]tripapimodels.TripView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/approvals [get]
func (c *tripApiController) approvals(ctx *fiber.Ctx) error {
	resp, err := triphandler.Instance.ListForApproval(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list trips for approval")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary All trip requests
// @Tags Business trips
// @Description Admin-only listing with optional filters
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"status filter"
// @Param   email					query		string	false	"employee filter"
// @Param   year					query		int		false	"start year filter"
// @Success 200 {object} apimodels.Response{data=[]tripapimodels.TripView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/all [get]
func (c *tripApiController) listAll(ctx *fiber.Ctx) error {
	filter := tripstore.AdminFilter{
		Status: models.TripStatus(ctx.Query("status")),
		Email:  ctx.Query("email"),
	}
	if v := ctx.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(errorYearFormat.Error()))
		}
		filter.Year = year
	}
	resp, err := triphandler.Instance.ListAll(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list trip requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Trip card
// @Tags Business trips
// @Description Visible to the owner, the assigned manager and admins. Includes justification history.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.TripView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id} [get]
func (c *tripApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := triphandler.Instance.GetByID(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load trip request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Edit a pending trip
// @Tags Business trips
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param	body body	 tripapimodels.TripData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.TripView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id} [put]
func (c *tripApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload tripapimodels.TripData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := triphandler.Instance.Update(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update trip request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Withdraw a pending trip
// @Tags Business trips
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id} [delete]
func (c *tripApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := triphandler.Instance.Delete(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete trip request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Approve a trip
// @Tags Business trips
// @Description Final admin approval also prepares the trip document folder
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.TripView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id}/approve [put]
func (c *tripApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := triphandler.Instance.Approve(ctx.UserContext(), middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to approve trip request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Reject a trip
// @Tags Business trips
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param	body body	 apimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.TripView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id}/reject [put]
func (c *tripApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload apimodels.RejectData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := triphandler.Instance.Reject(ctx.UserContext(), middleware.GetActor(ctx), id, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to reject trip request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Upload an expense receipt
// @Tags Business trips
// @Description Multipart upload. Returns the storage key to reference in the justification.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param   file					formData	file	true	"receipt file"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id}/receipts [post]
func (c *tripApiController) uploadReceipt(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file form field is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("failed to open the uploaded file"))
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("failed to read the uploaded file"))
	}
	key, err := triphandler.Instance.UploadReceipt(ctx.UserContext(), middleware.GetActor(ctx), id,
		fileHeader.Filename, data, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to upload receipt")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(key))
}

// @Summary Submit an expense justification
// @Tags Business trips
// @Description Opens after final approval. Resubmission is allowed after a rejected review.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param	body body	 tripapimodels.JustificationData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.JustificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id}/justifications [post]
func (c *tripApiController) submitJustification(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload tripapimodels.JustificationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := triphandler.Instance.SubmitJustification(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to submit justification")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Review an expense justification
// @Tags Business trips
// @Description Admin verdict: approval completes the trip, rejection reopens the flow
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param   justification_id	path    string  true	"justification ID"
// @Param	body body	 tripapimodels.JustificationReviewData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.JustificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id}/justifications/{justification_id}/review [put]
func (c *tripApiController) reviewJustification(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	justificationID := ctx.Params("justification_id")
	if justificationID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("justification id is not specified"))
	}
	var payload tripapimodels.JustificationReviewData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := triphandler.Instance.ReviewJustification(ctx.UserContext(), middleware.GetActor(ctx), id, justificationID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to review justification")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Download a trip document
// @Tags Business trips
// @Description Streams the trip summary pdf or the expense spreadsheet from object storage
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param   doc         		path    string  true	"document name"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trips/{id}/documents/{doc} [get]
func (c *tripApiController) getDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	doc := path.Base(ctx.Params("doc"))
	data, err := triphandler.Instance.GetDocument(ctx.UserContext(), middleware.GetActor(ctx), id, doc)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load trip document")
	}
	contentType := "application/octet-stream"
	switch path.Ext(doc) {
	case ".pdf":
		contentType = "application/pdf"
	case ".xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc+`"`)
	return ctx.Status(fiber.StatusOK).Send(data)
}
