package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

type supervisorApi struct {
	svc *fyp.Service
}

type feedbackRequest struct {
	Content string `json:"content"`
}

func registerSupervisorAPI(g *echo.Group, svc *fyp.Service) {
	api := supervisorApi{svc: svc}
	supervisor := roleMiddleware(user.RoleSupervisor)

	sg := g.Group("/supervisor")
	sg.GET("/progress", api.progress, supervisor)
	sg.GET("/students/:id/submissions", api.submissions, roleMiddleware(user.RoleSupervisor, user.RoleCommittee))
	sg.POST("/submissions/:fileId/approve", api.approve, supervisor)
	sg.POST("/submissions/:fileId/revision", api.requestRevision, supervisor)
	sg.POST("/submissions/:fileId/feedback", api.addFeedback, supervisor)

	// any signed-in role
	g.POST("/submissions/:fileId/download", api.download)
}

// Handlers

func (api *supervisorApi) progress(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	students, err := api.svc.Students(rctx, fyp.ScopeSupervised)
	if err != nil {
		return errors.Wrap(err, "querying supervised students")
	}
	roster, err := api.svc.SubmissionsForRoster(rctx, students)
	if err != nil {
		return errors.Wrap(err, "querying roster submissions")
	}

	rows := make([]fyp.StudentProgress, 0, len(roster))
	for _, entry := range roster {
		rows = append(rows, fyp.NewStudentProgress(entry.Student, entry.Submissions))
	}
	search, ord := bindQuery(ctx)

	return ctx.JSON(http.StatusOK, MonProgressView{
		Students: applyQuery(rows, search, ord, searchFields...),
		Empty:    len(rows) == 0,
	})
}

func (api *supervisorApi) submissions(ctx echo.Context) error {
	subs, err := api.svc.Submissions(ctx.Request().Context(), fyp.ID(ctx.Param("id")))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, newSubmissionsView(subs))
}

func (api *supervisorApi) approve(ctx echo.Context) error {
	ref := fyp.SubmissionRef{FileID: fyp.ID(ctx.Param("fileId"))}
	if err := api.svc.Approve(ctx.Request().Context(), ref); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *supervisorApi) requestRevision(ctx echo.Context) error {
	ref := fyp.SubmissionRef{FileID: fyp.ID(ctx.Param("fileId"))}
	if err := api.svc.RequestRevision(ctx.Request().Context(), ref); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *supervisorApi) addFeedback(ctx echo.Context) error {
	var data feedbackRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to feedbackRequest")
	}
	fb := fyp.NewFeedback{FileID: fyp.ID(ctx.Param("fileId")), Content: data.Content}
	if err := api.svc.AddFeedback(ctx.Request().Context(), fb); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *supervisorApi) download(ctx echo.Context) error {
	ref := fyp.SubmissionRef{FileID: fyp.ID(ctx.Param("fileId"))}
	blob, err := api.svc.Download(ctx.Request().Context(), ref)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(blob.Filename))
	return ctx.Blob(http.StatusOK, blob.ContentType, blob.Data)
}

func newSubmissionsView(subs []fyp.Submission) SubmissionsView {
	return SubmissionsView{
		Submissions: fyp.SortSubmissions(subs),
		Empty:       len(subs) == 0,
		Counts:      fyp.CountSubmissions(subs),
	}
}
