package controller

import (
	"conference-badge-api/core/controller"
	"conference-badge-api/core/errors"
	"conference-badge-api/modules/badge/dto"
	"conference-badge-api/modules/badge/service"
	"conference-badge-api/modules/badge/validator"

	"github.com/labstack/echo/v4"
)

type BadgeController struct {
	controller.BaseController
	service service.BadgeService
}

func NewBadgeController(service service.BadgeService) *BadgeController {
	return &BadgeController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *BadgeController) Create(ctx echo.Context) error {
	var req dto.CreateBadgeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	if result := validator.ValidateCreateBadge(&req); result.HasError() {
		return c.ValidationFailed(ctx, result.Errors)
	}

	resp, appErr := c.service.Create(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Badge created")
}

func (c *BadgeController) Get(ctx echo.Context) error {
	badge, appErr := c.service.Get(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, badge, "Badge retrieved")
}
