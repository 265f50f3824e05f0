// Package inmem is an in-memory stand-in for the FYP backend, used by tests and offline demos.
package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	mutex sync.RWMutex

	sessions    map[string]user.User // cookie value -> user
	students    []fyp.Student
	supervisors map[fyp.ID]string // student -> supervisor user ID
	submissions map[fyp.ID][]fyp.Submission
	files       map[fyp.ID]fyp.Blob
	deadlines   []fyp.Deadline
	released    bool
	fileCount   int
}

func NewDB() *DB {
	db := &DB{
		sessions:    make(map[string]user.User),
		supervisors: make(map[fyp.ID]string),
		submissions: make(map[fyp.ID][]fyp.Submission),
		files:       make(map[fyp.ID]fyp.Blob),
	}
	for _, dt := range fyp.DocTypes {
		db.deadlines = append(db.deadlines, fyp.Deadline{DocType: dt})
	}
	return db
}

// AddSession registers a logged-in user under the session cookie value token.
func (db *DB) AddSession(token string, usr user.User) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	usr.Authenticated = true
	db.sessions[token] = usr
}

// AddStudent adds st to the roster, supervised by the user supervisorID.
func (db *DB) AddStudent(st fyp.Student, supervisorID string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.students = append(db.students, st)
	db.supervisors[st.StudentID] = supervisorID
}

// AddSubmission stores a submission and its file. An empty FileID is assigned.
func (db *DB) AddSubmission(studentID fyp.ID, sub fyp.Submission, data []byte) fyp.Submission {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.addSubmission(studentID, sub, data, "")
}

func (db *DB) addSubmission(studentID fyp.ID, sub fyp.Submission, data []byte, contentType string) fyp.Submission {
	if sub.FileID == "" {
		db.fileCount++
		sub.FileID = fyp.ID(fmt.Sprintf("f%d", db.fileCount))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	db.submissions[studentID] = append(db.submissions[studentID], sub)
	db.files[sub.FileID] = fyp.Blob{Filename: sub.Filename, ContentType: contentType, Data: data}
	return sub
}

// session returns the user of the request's cookie. Unknown sessions and role
// mismatches fail the way the backend does, with core.ErrAuthExpired.
func (db *DB) session(ctx context.Context, roles ...user.Role) (user.User, error) {
	cookie := user.CookieFromContext(ctx)
	if cookie == nil {
		return user.User{}, core.ErrAuthExpired
	}
	usr, ok := db.sessions[cookie.Value]
	if !ok {
		return user.User{}, core.ErrAuthExpired
	}
	if len(roles) > 0 && !usr.HasAnyRole(roles...) {
		return user.User{}, core.ErrAuthExpired
	}
	return usr, nil
}

// findSubmission returns the owner and index of a submission.
func (db *DB) findSubmission(id fyp.ID) (fyp.ID, int, bool) {
	for studentID, subs := range db.submissions {
		for i, s := range subs {
			if s.FileID == id {
				return studentID, i, true
			}
		}
	}
	return "", 0, false
}
