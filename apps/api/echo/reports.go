package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

type reportsApi struct {
	svc *fyp.Service
}

func registerReportsAPI(g *echo.Group, svc *fyp.Service) {
	api := reportsApi{svc: svc}

	ag := g.Group("/admin", roleMiddleware(user.RoleAdmin))
	ag.GET("/reports", api.studentReports)
}

// Handlers

func (api *reportsApi) studentReports(ctx echo.Context) error {
	students, err := api.svc.StudentReports(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying student reports")
	}
	search, ord := bindQuery(ctx)
	table := applyQuery(students, search, ord, searchFields...)

	return ctx.JSON(http.StatusOK, AdminReportsView{
		Students: table,
		Empty:    len(students) == 0,
		Charts:   newChartData(students),
	})
}
