package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

type committeeApi struct {
	svc *fyp.Service
}

func registerCommitteeAPI(g *echo.Group, svc *fyp.Service) {
	api := committeeApi{svc: svc}

	cg := g.Group("/committee", roleMiddleware(user.RoleCommittee, user.RoleAdmin))
	cg.GET("/results", api.results)
	cg.POST("/results/release", api.release)
	cg.POST("/results/hide", api.hide)
	cg.GET("/deadlines", api.deadlines)
	cg.POST("/deadlines", api.changeDeadline)
	cg.GET("/students", api.students)
}

// Handlers

func (api *committeeApi) results(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	students, err := api.svc.AllGrades(rctx)
	if err != nil {
		return errors.Wrap(err, "querying all grades")
	}
	status, err := api.svc.ReleaseStatus(rctx)
	if err != nil {
		return errors.Wrap(err, "getting release status")
	}
	search, ord := bindQuery(ctx)

	return ctx.JSON(http.StatusOK, ReleaseResView{
		Students: applyQuery(students, search, ord, searchFields...),
		Empty:    len(students) == 0,
		Released: bool(status.Released),
		Status:   report.GradingStatusSplit(students),
	})
}

func (api *committeeApi) release(ctx echo.Context) error {
	return api.setReleased(ctx, true)
}

func (api *committeeApi) hide(ctx echo.Context) error {
	return api.setReleased(ctx, false)
}

func (api *committeeApi) setReleased(ctx echo.Context, released bool) error {
	status, err := api.svc.SetGradesReleased(ctx.Request().Context(), released)
	if err != nil {
		return errors.Wrap(err, "setting grade release")
	}
	return ctx.JSON(http.StatusOK, status)
}

func (api *committeeApi) deadlines(ctx echo.Context) error {
	deadlines, err := api.svc.Deadlines(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying deadlines")
	}
	return ctx.JSON(http.StatusOK, DeadlinesView{Deadlines: deadlines, Empty: len(deadlines) == 0})
}

func (api *committeeApi) changeDeadline(ctx echo.Context) error {
	var data fyp.DeadlineChange
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeadlineChange")
	}
	if err := api.svc.ChangeDeadline(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *committeeApi) students(ctx echo.Context) error {
	students, err := api.svc.Students(ctx.Request().Context(), fyp.ScopeAll)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	search, ord := bindQuery(ctx)
	return ctx.JSON(http.StatusOK, RosterView{
		Students: applyQuery(students, search, ord, searchFields...),
		Empty:    len(students) == 0,
	})
}
