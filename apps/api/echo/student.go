package echoapi

import (
	"io/ioutil"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

// maxUploadSize caps the multipart upload read by the gateway.
const maxUploadSize = 32 << 20

type studentApi struct {
	svc *fyp.Service
}

func registerStudentAPI(g *echo.Group, svc *fyp.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/student", roleMiddleware(user.RoleStudent))
	sg.GET("/status", api.status)
	sg.GET("/submissions", api.submissions)
	sg.GET("/grades", api.grades)
	sg.POST("/upload", api.upload)
}

// Handlers

func (api *studentApi) status(ctx echo.Context) error {
	status, err := api.svc.StudentStatus(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting student status")
	}
	return ctx.JSON(http.StatusOK, StudentStatusView{
		Milestones: status,
		Progress:   report.ProgressPercent(status, report.MilestoneFields),
	})
}

func (api *studentApi) submissions(ctx echo.Context) error {
	subs, err := api.svc.MySubmissions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying my submissions")
	}
	return ctx.JSON(http.StatusOK, newSubmissionsView(subs))
}

func (api *studentApi) grades(ctx echo.Context) error {
	grades, err := api.svc.MyGrades(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting my grades")
	}
	return ctx.JSON(http.StatusOK, newViewGrades(grades))
}

func (api *studentApi) upload(ctx echo.Context) error {
	req := ctx.Request()
	req.Body = http.MaxBytesReader(ctx.Response(), req.Body, maxUploadSize)

	up := fyp.Upload{DocType: fyp.DocType(ctx.FormValue("doc_type"))}
	if fh, err := ctx.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		defer f.Close()

		if up.Data, err = ioutil.ReadAll(f); err != nil {
			return errors.Wrap(err, "reading uploaded file")
		}
		up.Filename = fh.Filename
		up.ContentType = fh.Header.Get(echo.HeaderContentType)
	} else if err != http.ErrMissingFile {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form").SetInternal(err)
	}

	if err := api.svc.Upload(req.Context(), up); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, up.Metadata())
}
