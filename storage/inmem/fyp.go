package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

var nowFunc = time.Now

type fypRepository struct {
	db *DB
}

func NewFypRepository(db *DB) fyp.Repository {
	return &fypRepository{db: db}
}

func (repo *fypRepository) roster() []fyp.Student {
	students := make([]fyp.Student, len(repo.db.students))
	copy(students, repo.db.students)
	return students
}

func (repo *fypRepository) QueryStudentReports(ctx context.Context) ([]fyp.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, err := repo.db.session(ctx, user.RoleAdmin); err != nil {
		return nil, err
	}
	return repo.roster(), nil
}

func (repo *fypRepository) QueryStudents(ctx context.Context, scope fyp.Scope) ([]fyp.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usr, err := repo.db.session(ctx, user.FacultyRoles...)
	if err != nil {
		return nil, err
	}
	if scope == fyp.ScopeAll {
		return repo.roster(), nil
	}
	students := make([]fyp.Student, 0)
	for _, st := range repo.db.students {
		if repo.db.supervisors[st.StudentID] == usr.ID {
			students = append(students, st)
		}
	}
	return students, nil
}

func (repo *fypRepository) QuerySubmissions(ctx context.Context, studentID fyp.ID) ([]fyp.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, err := repo.db.session(ctx, user.FacultyRoles...); err != nil {
		return nil, err
	}
	return repo.submissionsOf(studentID), nil
}

func (repo *fypRepository) submissionsOf(studentID fyp.ID) []fyp.Submission {
	subs := repo.db.submissions[studentID]
	out := make([]fyp.Submission, len(subs))
	copy(out, subs)
	return out
}

func (repo *fypRepository) setApproved(ctx context.Context, id fyp.ID, approved bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, err := repo.db.session(ctx, user.RoleSupervisor); err != nil {
		return err
	}
	owner, i, ok := repo.db.findSubmission(id)
	if !ok {
		return ErrNotFound
	}
	repo.db.submissions[owner][i].IsApproved = fyp.Flag(approved)
	return nil
}

func (repo *fypRepository) ApproveSubmission(ctx context.Context, ref fyp.SubmissionRef) error {
	return repo.setApproved(ctx, ref.FileID, true)
}

func (repo *fypRepository) RequestRevision(ctx context.Context, ref fyp.SubmissionRef) error {
	return repo.setApproved(ctx, ref.FileID, false)
}

func (repo *fypRepository) AddFeedback(ctx context.Context, nf fyp.NewFeedback) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, err := repo.db.session(ctx, user.RoleSupervisor); err != nil {
		return err
	}
	owner, i, ok := repo.db.findSubmission(nf.FileID)
	if !ok {
		return ErrNotFound
	}
	sub := &repo.db.submissions[owner][i]
	sub.Feedback = append(sub.Feedback, fyp.Feedback{
		ID:          fyp.ID(fmt.Sprintf("%s-%d", nf.FileID, len(sub.Feedback)+1)),
		Content:     nf.Content,
		SubmittedAt: nowFunc().UTC().Format("2006-01-02T15:04:05"),
	})
	return nil
}

func (repo *fypRepository) DownloadSubmission(ctx context.Context, ref fyp.SubmissionRef) (fyp.Blob, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usr, err := repo.db.session(ctx)
	if err != nil {
		return fyp.Blob{}, err
	}
	owner, _, ok := repo.db.findSubmission(ref.FileID)
	if !ok {
		return fyp.Blob{}, ErrNotFound
	}
	if usr.Role == user.RoleStudent && string(owner) != usr.ID {
		return fyp.Blob{}, ErrNotFound
	}
	return repo.db.files[ref.FileID], nil
}

func (repo *fypRepository) UploadSubmission(ctx context.Context, up fyp.Upload) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, err := repo.db.session(ctx, user.RoleStudent)
	if err != nil {
		return err
	}
	now := nowFunc().UTC()
	late := false
	for _, d := range repo.db.deadlines {
		if d.DocType == up.DocType && d.DeadlineDate != "" {
			late = now.Format("2006-01-02") > d.DeadlineDate
		}
	}
	repo.db.addSubmission(fyp.ID(usr.ID), fyp.Submission{
		Filename:      up.Filename,
		DocType:       up.DocType,
		SubmittedAt:   now.Format("2006-01-02T15:04:05"),
		SubmittedLate: fyp.Bool(late),
	}, up.Data, up.ContentType)
	return nil
}

func (repo *fypRepository) GetStudentStatus(ctx context.Context) (report.Fields, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usr, err := repo.db.session(ctx, user.RoleStudent)
	if err != nil {
		return nil, err
	}
	return fyp.Milestones(repo.db.submissions[fyp.ID(usr.ID)]), nil
}

func (repo *fypRepository) QueryMySubmissions(ctx context.Context) ([]fyp.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usr, err := repo.db.session(ctx, user.RoleStudent)
	if err != nil {
		return nil, err
	}
	return repo.submissionsOf(fyp.ID(usr.ID)), nil
}

func (repo *fypRepository) GetMyGrades(ctx context.Context) (fyp.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usr, err := repo.db.session(ctx, user.RoleStudent)
	if err != nil {
		return fyp.Student{}, err
	}
	for _, st := range repo.db.students {
		if string(st.StudentID) != usr.ID {
			continue
		}
		if !repo.db.released {
			// grades stay hidden until the committee releases them
			return fyp.Student{StudentID: st.StudentID, StudentName: st.StudentName, Email: st.Email}, nil
		}
		return st, nil
	}
	return fyp.Student{}, ErrNotFound
}

func (repo *fypRepository) QueryAllGrades(ctx context.Context) ([]fyp.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, err := repo.db.session(ctx, user.RoleCommittee, user.RoleAdmin); err != nil {
		return nil, err
	}
	return repo.roster(), nil
}

func (repo *fypRepository) GetGradeReleaseStatus(ctx context.Context) (fyp.GradeReleaseStatus, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, err := repo.db.session(ctx, user.RoleCommittee, user.RoleAdmin); err != nil {
		return fyp.GradeReleaseStatus{}, err
	}
	return fyp.GradeReleaseStatus{Released: fyp.Bool(repo.db.released)}, nil
}

func (repo *fypRepository) setReleased(ctx context.Context, released bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, err := repo.db.session(ctx, user.RoleCommittee, user.RoleAdmin); err != nil {
		return err
	}
	repo.db.released = released
	return nil
}

func (repo *fypRepository) ReleaseGrades(ctx context.Context) error {
	return repo.setReleased(ctx, true)
}

func (repo *fypRepository) HideGrades(ctx context.Context) error {
	return repo.setReleased(ctx, false)
}

func (repo *fypRepository) QueryDeadlines(ctx context.Context) ([]fyp.Deadline, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, err := repo.db.session(ctx); err != nil {
		return nil, err
	}
	deadlines := make([]fyp.Deadline, len(repo.db.deadlines))
	copy(deadlines, repo.db.deadlines)
	return deadlines, nil
}

func (repo *fypRepository) ChangeDeadline(ctx context.Context, dc fyp.DeadlineChange) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, err := repo.db.session(ctx, user.RoleCommittee, user.RoleAdmin); err != nil {
		return err
	}
	for i := range repo.db.deadlines {
		if repo.db.deadlines[i].DocType == dc.DocType {
			repo.db.deadlines[i].DeadlineDate = dc.DeadlineDate
			return nil
		}
	}
	return ErrNotFound
}
