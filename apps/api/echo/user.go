package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

type userApi struct {
	svc        *user.Service
	cookieName string
}

func registerUserAPI(g *echo.Group, svc *user.Service, cookieName string) {
	api := userApi{svc: svc, cookieName: cookieName}

	g.GET("/me", api.me)
	g.POST("/logout", api.logout)
}

// Handlers

func (api *userApi) me(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, getContextUser(ctx))
}

func (api *userApi) logout(ctx echo.Context) error {
	if err := api.svc.Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	clearCookie(ctx, api.cookieName)
	return ctx.NoContent(http.StatusNoContent)
}
