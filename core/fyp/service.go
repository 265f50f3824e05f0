package fyp

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
)

type (
	// Repository is the backend's FYP surface. Implementations return core.ErrAuthExpired
	// when the session is rejected and *core.RequestError for any other failure.
	Repository interface {
		QueryStudentReports(ctx context.Context) ([]Student, error)
		QueryStudents(ctx context.Context, scope Scope) ([]Student, error)
		QuerySubmissions(ctx context.Context, studentID ID) ([]Submission, error)
		ApproveSubmission(ctx context.Context, ref SubmissionRef) error
		RequestRevision(ctx context.Context, ref SubmissionRef) error
		AddFeedback(ctx context.Context, fb NewFeedback) error
		DownloadSubmission(ctx context.Context, ref SubmissionRef) (Blob, error)
		UploadSubmission(ctx context.Context, up Upload) error

		GetStudentStatus(ctx context.Context) (report.Fields, error)
		QueryMySubmissions(ctx context.Context) ([]Submission, error)
		GetMyGrades(ctx context.Context) (Student, error)

		QueryAllGrades(ctx context.Context) ([]Student, error)
		GetGradeReleaseStatus(ctx context.Context) (GradeReleaseStatus, error)
		ReleaseGrades(ctx context.Context) error
		HideGrades(ctx context.Context) error

		QueryDeadlines(ctx context.Context) ([]Deadline, error)
		ChangeDeadline(ctx context.Context, dc DeadlineChange) error
	}

	Service struct {
		repo           Repository
		validate       *validator.Validate
		maxConcurrency int
	}
)

func NewService(repo Repository, validate *validator.Validate, maxConcurrency int) *Service {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Service{repo: repo, validate: validate, maxConcurrency: maxConcurrency}
}

func (svc *Service) StudentReports(ctx context.Context) ([]Student, error) {
	students, err := svc.repo.QueryStudentReports(ctx)
	return students, errors.Wrap(err, "querying student reports")
}

func (svc *Service) Students(ctx context.Context, scope Scope) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, scope)
	return students, errors.Wrap(err, "querying students")
}

func (svc *Service) Submissions(ctx context.Context, studentID ID) ([]Submission, error) {
	if studentID == "" {
		return nil, errMissingStudentID
	}
	subs, err := svc.repo.QuerySubmissions(ctx, studentID)
	return subs, errors.Wrapf(err, "querying submissions of %s", studentID)
}

var errMissingStudentID = errors.New("student id is required")

// StudentSubmissions pairs a roster entry with its submissions.
type StudentSubmissions struct {
	Student     Student
	Submissions []Submission
}

// SubmissionsForRoster fetches every student's submissions concurrently, with at most
// maxConcurrency requests in flight. Results keep the roster order. The first failure
// cancels the remaining requests and is returned. A roster entry without an id fails
// the call before any request is made.
func (svc *Service) SubmissionsForRoster(ctx context.Context, students []Student) ([]StudentSubmissions, error) {
	for i, st := range students {
		if st.StudentID == "" {
			return nil, errors.Wrapf(errMissingStudentID, "roster entry %d", i)
		}
	}

	out := make([]StudentSubmissions, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(svc.maxConcurrency)

	for i, st := range students {
		i, st := i, st
		out[i].Student = st
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			subs, err := svc.repo.QuerySubmissions(gctx, st.StudentID)
			if err != nil {
				return errors.Wrapf(err, "querying submissions of %s", st.StudentID)
			}
			out[i].Submissions = subs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (svc *Service) Approve(ctx context.Context, ref SubmissionRef) error {
	if err := ref.Validate(svc.validate); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.ApproveSubmission(ctx, ref), "approving submission")
}

func (svc *Service) RequestRevision(ctx context.Context, ref SubmissionRef) error {
	if err := ref.Validate(svc.validate); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.RequestRevision(ctx, ref), "requesting revision")
}

func (svc *Service) AddFeedback(ctx context.Context, fb NewFeedback) error {
	if err := fb.Validate(svc.validate); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.AddFeedback(ctx, fb), "adding feedback")
}

func (svc *Service) Download(ctx context.Context, ref SubmissionRef) (Blob, error) {
	if err := ref.Validate(svc.validate); err != nil {
		return Blob{}, err
	}
	blob, err := svc.repo.DownloadSubmission(ctx, ref)
	return blob, errors.Wrap(err, "downloading submission")
}

func (svc *Service) Upload(ctx context.Context, up Upload) error {
	if err := up.Validate(svc.validate); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.UploadSubmission(ctx, up), "uploading submission")
}

func (svc *Service) StudentStatus(ctx context.Context) (report.Fields, error) {
	status, err := svc.repo.GetStudentStatus(ctx)
	if status == nil && err == nil {
		status = report.Fields{}
	}
	return status, errors.Wrap(err, "getting student status")
}

func (svc *Service) MySubmissions(ctx context.Context) ([]Submission, error) {
	subs, err := svc.repo.QueryMySubmissions(ctx)
	return subs, errors.Wrap(err, "querying my submissions")
}

func (svc *Service) MyGrades(ctx context.Context) (Student, error) {
	grades, err := svc.repo.GetMyGrades(ctx)
	return grades, errors.Wrap(err, "getting my grades")
}

func (svc *Service) AllGrades(ctx context.Context) ([]Student, error) {
	students, err := svc.repo.QueryAllGrades(ctx)
	return students, errors.Wrap(err, "querying all grades")
}

func (svc *Service) ReleaseStatus(ctx context.Context) (GradeReleaseStatus, error) {
	status, err := svc.repo.GetGradeReleaseStatus(ctx)
	return status, errors.Wrap(err, "getting grade release status")
}

// SetGradesReleased releases or hides grades and returns the resulting status.
func (svc *Service) SetGradesReleased(ctx context.Context, released bool) (GradeReleaseStatus, error) {
	var err error
	if released {
		err = errors.Wrap(svc.repo.ReleaseGrades(ctx), "releasing grades")
	} else {
		err = errors.Wrap(svc.repo.HideGrades(ctx), "hiding grades")
	}
	if err != nil {
		return GradeReleaseStatus{}, err
	}
	return svc.ReleaseStatus(ctx)
}

func (svc *Service) Deadlines(ctx context.Context) ([]Deadline, error) {
	deadlines, err := svc.repo.QueryDeadlines(ctx)
	return deadlines, errors.Wrap(err, "querying deadlines")
}

func (svc *Service) ChangeDeadline(ctx context.Context, dc DeadlineChange) error {
	if err := dc.Validate(svc.validate); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.ChangeDeadline(ctx, dc), "changing deadline")
}

// SubmissionCounts summarizes a submission list using the normalized flags.
type SubmissionCounts struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Late     int `json:"late"`
}

func CountSubmissions(subs []Submission) SubmissionCounts {
	c := SubmissionCounts{Total: len(subs)}
	for _, s := range subs {
		if s.IsApproved {
			c.Approved++
		}
		if s.SubmittedLate {
			c.Late++
		}
	}
	c.Pending = c.Total - c.Approved
	return c
}

// Milestones builds a progress record from a student's submissions: each document type
// maps to the approval flag of its latest submission, and types never submitted are absent.
func Milestones(subs []Submission) report.Fields {
	latest := make(map[DocType]Submission, len(DocTypes))
	for _, s := range subs {
		if prev, ok := latest[s.DocType]; !ok || s.SubmittedAt >= prev.SubmittedAt {
			latest[s.DocType] = s
		}
	}
	fields := make(report.Fields, len(latest))
	for dt, s := range latest {
		if key := dt.MilestoneField(); key != "" {
			fields[key] = bool(s.IsApproved)
		}
	}
	return fields
}

// StudentProgress is one row of a supervisor's progress monitor.
type StudentProgress struct {
	StudentID   ID               `json:"studentId"`
	StudentName string           `json:"studentName"`
	Email       string           `json:"email"`
	Milestones  report.Fields    `json:"milestones"`
	Progress    int              `json:"progress"`
	Counts      SubmissionCounts `json:"counts"`
}

var _ report.Record = StudentProgress{}

func NewStudentProgress(st Student, subs []Submission) StudentProgress {
	milestones := Milestones(subs)
	return StudentProgress{
		StudentID:   st.StudentID,
		StudentName: st.StudentName,
		Email:       st.Email,
		Milestones:  milestones,
		Progress:    report.ProgressPercent(milestones, report.MilestoneFields),
		Counts:      CountSubmissions(subs),
	}
}

func (p StudentProgress) Lookup(key string) (interface{}, bool) {
	switch key {
	case "studentId":
		return string(p.StudentID), true
	case "studentName":
		return p.StudentName, true
	case "email":
		return p.Email, true
	case "progress":
		return float64(p.Progress), true
	}
	return nil, false
}

// SortSubmissions orders submissions newest first.
func SortSubmissions(subs []Submission) []Submission {
	out := make([]Submission, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	return out
}
