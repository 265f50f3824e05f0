package fyp

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
)

// Flag is the backend's is_approved value, normalized with report.ApprovalCoercion:
// "false", "0" and 0 are not approved.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "decoding flag")
	}
	*f = Flag(report.ApprovalCoercion(v))
	return nil
}

// Bool is any other loosely typed backend boolean. It is true when the wire value
// is truthy (report.Truthy), so "false" and "0" are true.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "decoding bool")
	}
	*b = Bool(report.Truthy(v))
	return nil
}

// ID is a backend identifier; the backend sends either strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "decoding id")
	}
	switch t := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(t)
	case float64:
		*id = ID(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return errors.Errorf("invalid id: %s", data)
	}
	return nil
}

type DocType string

const (
	DocProposal DocType = "Proposal"
	DocDesign   DocType = "Design Document"
	DocTest     DocType = "Test Document"
	DocThesis   DocType = "Thesis"
)

// DocTypes are the four deliverables, in submission order.
var DocTypes = []DocType{DocProposal, DocDesign, DocTest, DocThesis}

func IsDocType(s string) bool {
	for _, dt := range DocTypes {
		if string(dt) == s {
			return true
		}
	}
	return false
}

// MilestoneField returns the progress record field for dt.
func (dt DocType) MilestoneField() string {
	for i, t := range DocTypes {
		if t == dt {
			return report.MilestoneFields[i]
		}
	}
	return ""
}

type Student struct {
	StudentID   ID       `json:"studentId"`
	StudentName string   `json:"studentName"`
	Email       string   `json:"email"`
	Grade       string   `json:"grade,omitempty"` // "" while pending
	TotalScore  *float64 `json:"totalScore,omitempty"`
	IsGraded    Bool     `json:"isGraded"`
	Rubric1     *float64 `json:"rubric1,omitempty"`
	Rubric2     *float64 `json:"rubric2,omitempty"`
	Rubric3     *float64 `json:"rubric3,omitempty"`
	Rubric4     *float64 `json:"rubric4,omitempty"`
	Rubric5     *float64 `json:"rubric5,omitempty"`
	Rubric6     *float64 `json:"rubric6,omitempty"`
}

var _ report.Record = Student{}

func (s Student) Lookup(key string) (interface{}, bool) {
	switch key {
	case "studentId":
		return string(s.StudentID), true
	case "studentName":
		return s.StudentName, true
	case "email":
		return s.Email, true
	case report.GradeField:
		return s.Grade, s.Grade != ""
	case report.TotalScoreField:
		return optional(s.TotalScore)
	case report.IsGradedField:
		return bool(s.IsGraded), true
	case "rubric1":
		return optional(s.Rubric1)
	case "rubric2":
		return optional(s.Rubric2)
	case "rubric3":
		return optional(s.Rubric3)
	case "rubric4":
		return optional(s.Rubric4)
	case "rubric5":
		return optional(s.Rubric5)
	case "rubric6":
		return optional(s.Rubric6)
	}
	return nil, false
}

// Rubrics returns the six rubric scores in order; nil entries are not scored yet.
func (s Student) Rubrics() []*float64 {
	return []*float64{s.Rubric1, s.Rubric2, s.Rubric3, s.Rubric4, s.Rubric5, s.Rubric6}
}

func optional(f *float64) (interface{}, bool) {
	if f == nil {
		return nil, false
	}
	return *f, true
}

type Feedback struct {
	ID          ID     `json:"id"`
	Content     string `json:"content"`
	SubmittedAt string `json:"submittedAt"`
}

type Submission struct {
	FileID        ID         `json:"file_id"`
	Filename      string     `json:"filename"`
	DocType       DocType    `json:"doc_type"`
	SubmittedAt   string     `json:"submission_datetime"` // ISO-8601 as sent by the backend
	IsApproved    Flag       `json:"is_approved"`
	SubmittedLate Bool       `json:"submitted_late"`
	Feedback      []Feedback `json:"feedback,omitempty"`
}

var _ report.Record = Submission{}

func (s Submission) Lookup(key string) (interface{}, bool) {
	switch key {
	case "file_id":
		return string(s.FileID), true
	case "filename":
		return s.Filename, true
	case "doc_type":
		return string(s.DocType), true
	case "submission_datetime":
		return s.SubmittedAt, s.SubmittedAt != ""
	case "is_approved":
		return bool(s.IsApproved), true
	case "submitted_late":
		return bool(s.SubmittedLate), true
	}
	return nil, false
}

type GradeReleaseStatus struct {
	Released Bool `json:"released"`
}

type Deadline struct {
	DocType      DocType `json:"doc_type"`
	DeadlineDate string  `json:"deadline_date"`
}

// Blob is a downloaded submission file.
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Scope selects which roster the faculty endpoints return.
type Scope int

const (
	ScopeSupervised Scope = iota // the caller's own students
	ScopeAll
)
