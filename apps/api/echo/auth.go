package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

var contextUserKey = "user"

// sessionMiddleware forwards the caller's backend session cookie through the request
// context and loads the session user. Callers without a cookie go to the login page.
func sessionMiddleware(cookieName string, svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie, err := ctx.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return &user.RedirectError{To: user.LoginRoute(user.RoleNone)}
			}

			req := ctx.Request()
			ctx.SetRequest(req.WithContext(user.ContextWithCookie(req.Context(), cookie)))

			usr, err := svc.Me(ctx.Request().Context())
			if err != nil {
				return errors.Wrap(err, "loading session")
			}
			if err = user.Guard(usr); err != nil {
				return err
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// roleMiddleware lets through session users holding one of roles.
func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := user.Guard(getContextUser(ctx), roles...); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) user.User {
	usr, _ := ctx.Get(contextUserKey).(user.User)
	return usr
}

// clearCookie expires the portal's copy of the session cookie.
func clearCookie(ctx echo.Context, name string) {
	ctx.SetCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}
