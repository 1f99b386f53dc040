package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"hr-portal-backend/controllers"
	assethandler "hr-portal-backend/lib/asset"
	assetstore "hr-portal-backend/lib/asset/store"
	"hr-portal-backend/middleware"
	"hr-portal-backend/models"
	apimodels "hr-portal-backend/models/api"
	assetapimodels "hr-portal-backend/models/api/asset"
)

type assetApiController struct {
	controllers.BaseAPIController
}

func InitAssetApiRouters(app fiber.Router) {
	controller := assetApiController{}
	app.Route("assets", func(router fiber.Router) {
		router.Route("requests", func(reqRoute fiber.Router) {
			reqRoute.Post("", controller.createRequest)
			reqRoute.Get("", controller.listMyRequests)
			reqRoute.Get("approvals", controller.approvals)
			reqRoute.Get("all", middleware.AdminRequired(), controller.listAllRequests)
			reqRoute.Route(":id", func(idRoute fiber.Router) {
				idRoute.Get("", controller.getRequest)
				idRoute.Put("", controller.updateRequest)
				idRoute.Delete("", controller.deleteRequest)
				idRoute.Put("approve", controller.approveRequest)
				idRoute.Put("reject", controller.rejectRequest)
			})
		})
		router.Get("", controller.listMyAssets)
		router.Route("inventory", func(invRoute fiber.Router) {
			invRoute.Post("", middleware.AdminRequired(), controller.createAsset)
			invRoute.Get("", middleware.AdminRequired(), controller.listAssets)
			invRoute.Get("export", middleware.AdminRequired(), controller.exportInventory)
			invRoute.Route(":id", func(idRoute fiber.Router) {
				idRoute.Get("", controller.getAsset)
				idRoute.Put("", middleware.AdminRequired(), controller.updateAsset)
				idRoute.Put("status", middleware.AdminRequired(), controller.changeStatus)
				idRoute.Put("reassign", middleware.AdminRequired(), controller.reassign)
				idRoute.Get("audit", middleware.AdminRequired(), controller.auditLog)
			})
		})
	})
}

// @Summary Submit an asset request
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 assetapimodels.AssetRequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=assetapimodels.AssetRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests [post]
func (c *assetApiController) createRequest(ctx *fiber.Ctx) error {
	var payload assetapimodels.AssetRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.CreateRequest(middleware.GetActor(ctx).Email, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create asset request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary My asset requests
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]assetapimodels.AssetRequestView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests [get]
func (c *assetApiController) listMyRequests(ctx *fiber.Ctx) error {
	resp, err := assethandler.Instance.ListMyRequests(middleware.GetActor(ctx).Email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list asset requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Asset requests awaiting my decision
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]assetapimodels.AssetRequestView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests/approvals [get]
func (c *assetApiController) approvals(ctx *fiber.Ctx) error {
	resp, err := assethandler.Instance.ListForApproval(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list asset requests for approval")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary All asset requests
// @Tags Assets
// @Description Admin-only listing with optional filters
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"status filter"
// @Param   email					query		string	false	"employee filter"
// @Success 200 {object} apimodels.Response{data=[]assetapimodels.AssetRequestView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests/all [get]
func (c *assetApiController) listAllRequests(ctx *fiber.Ctx) error {
	filter := assetstore.AdminFilter{
		Status: models.ApprovalStatus(ctx.Query("status")),
		Email:  ctx.Query("email"),
	}
	resp, err := assethandler.Instance.ListAllRequests(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list asset requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Asset request card
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response{data=assetapimodels.AssetRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests/{id} [get]
func (c *assetApiController) getRequest(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.GetRequest(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load asset request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Edit a pending asset request
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param	body body	 assetapimodels.AssetRequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=assetapimodels.AssetRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests/{id} [put]
func (c *assetApiController) updateRequest(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload assetapimodels.AssetRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.UpdateRequest(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update asset request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Withdraw a pending asset request
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests/{id} [delete]
func (c *assetApiController) deleteRequest(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := assethandler.Instance.DeleteRequest(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete asset request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Approve an asset request
// @Tags Assets
// @Description Final admin approval also creates the inventory entry
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Success 200 {object} apimodels.Response{data=assetapimodels.AssetRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests/{id}/approve [put]
func (c *assetApiController) approveRequest(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.Approve(ctx.UserContext(), middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to approve asset request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Reject an asset request
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"rec ID"
// @Param	body body	 apimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response{data=assetapimodels.AssetRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/requests/{id}/reject [put]
func (c *assetApiController) rejectRequest(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload apimodels.RejectData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.Reject(ctx.UserContext(), middleware.GetActor(ctx), id, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to reject asset request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Assets assigned to me
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]assetapimodels.InventoryAssetView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets [get]
func (c *assetApiController) listMyAssets(ctx *fiber.Ctx) error {
	resp, err := assethandler.Instance.ListMyAssets(middleware.GetActor(ctx).Email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list assets")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Register an asset manually
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 assetapimodels.InventoryAssetData	true	"request body"
// @Success 200 {object} apimodels.Response{data=assetapimodels.InventoryAssetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory [post]
func (c *assetApiController) createAsset(ctx *fiber.Ctx) error {
	var payload assetapimodels.InventoryAssetData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.CreateAsset(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create asset")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Asset inventory
// @Tags Assets
// @Description Admin-only listing with optional filters
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"status filter"
// @Param   email					query		string	false	"holder filter"
// @Success 200 {object} apimodels.Response{data=[]assetapimodels.InventoryAssetView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory [get]
func (c *assetApiController) listAssets(ctx *fiber.Ctx) error {
	filter := assetstore.InventoryFilter{
		Status: models.AssetStatus(ctx.Query("status")),
		Email:  ctx.Query("email"),
	}
	resp, err := assethandler.Instance.ListAssets(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list assets")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Export the inventory as xlsx
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"status filter"
// @Param   email					query		string	false	"holder filter"
// @Success 200 {file} file
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory/export [get]
func (c *assetApiController) exportInventory(ctx *fiber.Ctx) error {
	filter := assetstore.InventoryFilter{
		Status: models.AssetStatus(ctx.Query("status")),
		Email:  ctx.Query("email"),
	}
	buf, err := assethandler.Instance.ExportInventoryXLS(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export the inventory")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="asset_inventory.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Asset card
// @Tags Assets
// @Description Visible to the current holder and admins
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"asset ID"
// @Success 200 {object} apimodels.Response{data=assetapimodels.InventoryAssetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory/{id} [get]
func (c *assetApiController) getAsset(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.GetAsset(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load asset")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Edit an asset
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"asset ID"
// @Param	body body	 assetapimodels.InventoryAssetData	true	"request body"
// @Success 200 {object} apimodels.Response{data=assetapimodels.InventoryAssetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory/{id} [put]
func (c *assetApiController) updateAsset(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload assetapimodels.InventoryAssetData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.UpdateAsset(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update asset")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Change asset status
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"asset ID"
// @Param	body body	 assetapimodels.StatusChangeData	true	"request body"
// @Success 200 {object} apimodels.Response{data=assetapimodels.InventoryAssetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory/{id}/status [put]
func (c *assetApiController) changeStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload assetapimodels.StatusChangeData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.ChangeStatus(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to change asset status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Reassign an asset
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"asset ID"
// @Param	body body	 assetapimodels.ReassignData	true	"request body"
// @Success 200 {object} apimodels.Response{data=assetapimodels.InventoryAssetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory/{id}/reassign [put]
func (c *assetApiController) reassign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload assetapimodels.ReassignData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.Reassign(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to reassign asset")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Asset audit trail
// @Tags Assets
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"asset ID"
// @Success 200 {object} apimodels.Response{data=[]assetapimodels.AuditLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assets/inventory/{id}/audit [get]
func (c *assetApiController) auditLog(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.AuditLog(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load asset audit log")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
