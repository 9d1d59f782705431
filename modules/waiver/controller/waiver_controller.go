package controller

import (
	"strconv"
	"time"

	"conference-badge-api/core/controller"
	"conference-badge-api/core/errors"
	"conference-badge-api/modules/waiver/dto"
	"conference-badge-api/modules/waiver/service"
	"conference-badge-api/modules/waiver/validator"

	"github.com/labstack/echo/v4"
)

type WaiverController struct {
	controller.BaseController
	service service.WaiverService
	now     func() time.Time
}

func NewWaiverController(service service.WaiverService) *WaiverController {
	return &WaiverController{
		BaseController: controller.NewBaseController(),
		service:        service,
		now:            time.Now,
	}
}

func (c *WaiverController) Submit(ctx echo.Context) error {
	var req dto.SubmitWaiverRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	if result := validator.ValidateSubmitWaiver(&req, c.now()); result.HasError() {
		return c.ValidationFailed(ctx, result.Errors)
	}

	meta := dto.RequestMeta{
		IPAddress: ctx.RealIP(),
		UserAgent: ctx.Request().UserAgent(),
	}
	resp, appErr := c.service.Submit(ctx.Request().Context(), req, meta)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Waiver submitted")
}

func (c *WaiverController) Get(ctx echo.Context) error {
	id := ctx.QueryParam("waiverId")
	if id == "" {
		return c.BadRequest(errors.ErrInvalidInput, "waiverId is required")
	}
	waiver, appErr := c.service.Get(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, waiver, "Waiver retrieved")
}

func (c *WaiverController) DocumentURL(ctx echo.Context) error {
	var expiresIn time.Duration
	if raw := ctx.QueryParam("expiresIn"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return c.BadRequest(errors.ErrInvalidInput, "expiresIn must be a positive number of seconds")
		}
		expiresIn = time.Duration(seconds) * time.Second
	}
	url, appErr := c.service.DocumentURL(ctx.Request().Context(), ctx.Param("id"), expiresIn)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, url, "Document URL generated")
}
