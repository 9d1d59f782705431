package controller

import (
	"conference-badge-api/core/controller"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/validator"
	"conference-badge-api/modules/auth/dto"
	"conference-badge-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	service service.AuthService
}

func NewAuthController(service service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *AuthController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result := validator.New()
	if result.Required("email", req.Email) {
		result.Email("email", req.Email)
	}
	result.Required("password", req.Password)
	if result.HasError() {
		return c.ValidationFailed(ctx, result.Errors)
	}

	resp, appErr := c.service.Login(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Login success")
}
