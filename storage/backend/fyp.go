package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/textproto"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
)

type fypRepository struct {
	c *Client
}

func NewFypRepository(c *Client) fyp.Repository {
	return &fypRepository{c: c}
}

func (repo *fypRepository) QueryStudentReports(ctx context.Context) ([]fyp.Student, error) {
	students := make([]fyp.Student, 0)
	err := repo.c.get(ctx, "/faculty/admin/studentreports", &students)
	return students, err
}

func (repo *fypRepository) QueryStudents(ctx context.Context, scope fyp.Scope) ([]fyp.Student, error) {
	path := "/faculty/mystudents"
	if scope == fyp.ScopeAll {
		path = "/faculty/allstudents"
	}
	students := make([]fyp.Student, 0)
	err := repo.c.get(ctx, path, &students)
	return students, err
}

func (repo *fypRepository) QuerySubmissions(ctx context.Context, studentID fyp.ID) ([]fyp.Submission, error) {
	subs := make([]fyp.Submission, 0)
	err := repo.c.get(ctx, "/submissions/"+url.PathEscape(string(studentID)), &subs)
	return subs, err
}

func (repo *fypRepository) ApproveSubmission(ctx context.Context, ref fyp.SubmissionRef) error {
	return repo.c.post(ctx, "/faculty/approvesubmission", ref, nil)
}

func (repo *fypRepository) RequestRevision(ctx context.Context, ref fyp.SubmissionRef) error {
	return repo.c.post(ctx, "/faculty/requestrevision", ref, nil)
}

func (repo *fypRepository) AddFeedback(ctx context.Context, fb fyp.NewFeedback) error {
	return repo.c.post(ctx, "/faculty/addfeedback", fb, nil)
}

func (repo *fypRepository) DownloadSubmission(ctx context.Context, ref fyp.SubmissionRef) (fyp.Blob, error) {
	res, err := repo.c.postRaw(ctx, "/download", ref)
	if err != nil {
		return fyp.Blob{}, err
	}
	blob := fyp.Blob{
		Filename:    attachmentName(res),
		ContentType: header(res, "Content-Type"),
		Data:        []byte(res.Body),
	}
	if blob.Filename == "" {
		blob.Filename = string(ref.FileID)
	}
	if blob.ContentType == "" {
		blob.ContentType = "application/octet-stream"
	}
	return blob, nil
}

func (repo *fypRepository) UploadSubmission(ctx context.Context, up fyp.Upload) error {
	body, contentType, err := multipartUpload(up)
	if err != nil {
		return err
	}
	_, err = repo.c.send(ctx, rest.Post, "/student/upload", body, map[string]string{"Content-Type": contentType})
	return err
}

// multipartUpload encodes the "metadata" JSON part, the "doc_type" field and the "file" part.
func multipartUpload(up fyp.Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(up.Metadata())
	if err != nil {
		return nil, "", errors.Wrap(err, "encoding upload metadata")
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="metadata"; filename="metadata.json"`)
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", errors.Wrap(err, "creating metadata part")
	}
	if _, err = part.Write(meta); err != nil {
		return nil, "", errors.Wrap(err, "writing metadata part")
	}

	if err = w.WriteField("doc_type", string(up.DocType)); err != nil {
		return nil, "", errors.Wrap(err, "writing doc_type field")
	}

	ct := up.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h = make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(up.Filename)+`"`)
	h.Set("Content-Type", ct)
	if part, err = w.CreatePart(h); err != nil {
		return nil, "", errors.Wrap(err, "creating file part")
	}
	if _, err = part.Write(up.Data); err != nil {
		return nil, "", errors.Wrap(err, "writing file part")
	}

	if err = w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "closing multipart body")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (repo *fypRepository) GetStudentStatus(ctx context.Context) (report.Fields, error) {
	status := make(report.Fields)
	err := repo.c.get(ctx, "/student/status", &status)
	return status, err
}

func (repo *fypRepository) QueryMySubmissions(ctx context.Context) ([]fyp.Submission, error) {
	subs := make([]fyp.Submission, 0)
	err := repo.c.get(ctx, "/student/mysubmissions", &subs)
	return subs, err
}

func (repo *fypRepository) GetMyGrades(ctx context.Context) (fyp.Student, error) {
	var grades fyp.Student
	err := repo.c.get(ctx, "/student/mygrades", &grades)
	return grades, err
}

func (repo *fypRepository) QueryAllGrades(ctx context.Context) ([]fyp.Student, error) {
	students := make([]fyp.Student, 0)
	err := repo.c.get(ctx, "/faculty/allstudentgrades", &students)
	return students, err
}

func (repo *fypRepository) GetGradeReleaseStatus(ctx context.Context) (fyp.GradeReleaseStatus, error) {
	var status fyp.GradeReleaseStatus
	err := repo.c.get(ctx, "/faculty/gradereleasestatus", &status)
	return status, err
}

// ReleaseGrades and HideGrades are GETs on the backend.
func (repo *fypRepository) ReleaseGrades(ctx context.Context) error {
	return repo.c.get(ctx, "/faculty/releasegrades", nil)
}

func (repo *fypRepository) HideGrades(ctx context.Context) error {
	return repo.c.get(ctx, "/faculty/hidegrades", nil)
}

func (repo *fypRepository) QueryDeadlines(ctx context.Context) ([]fyp.Deadline, error) {
	deadlines := make([]fyp.Deadline, 0)
	err := repo.c.get(ctx, "/faculty/documenttypes", &deadlines)
	return deadlines, err
}

func (repo *fypRepository) ChangeDeadline(ctx context.Context, dc fyp.DeadlineChange) error {
	return repo.c.post(ctx, "/faculty/changedeadline", dc, nil)
}
