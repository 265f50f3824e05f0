package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

var (
	errSessionExpired = core.ErrAuthExpired.Error()
	errBackendFailed  = "backend request failed"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	cookieName string,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		if core.IsAuthExpired(err) {
			clearCookie(ctx, cookieName)
			code = http.StatusUnauthorized
			message = errSessionExpired
			respond(ctx, code, message)
			return
		}

		switch origErr := errors.Cause(err).(type) {
		case *user.RedirectError:
			if !ctx.Response().Committed {
				if rErr := ctx.Redirect(http.StatusSeeOther, origErr.To); rErr != nil {
					ctx.Echo().Logger.Error(rErr)
				}
			}
			return
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *core.RequestError:
			code = http.StatusBadGateway
			message = errBackendFailed
			logger.Error(errBackendFailed, err, requestInfo(ctx), getContextUser(ctx))
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg), requestInfo(ctx), getContextUser(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}
		respond(ctx, code, message)
	}
}

func respond(ctx echo.Context, code int, message interface{}) {
	if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	// Send response
	if !ctx.Response().Committed {
		var err error
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

// requestInfo is the extras attached to logged gateway failures.
func requestInfo(ctx echo.Context) map[string]interface{} {
	return map[string]interface{}{
		"route":      ctx.Path(),
		"method":     ctx.Request().Method,
		"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
	}
}
