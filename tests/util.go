package testutil

import (
	"io/ioutil"
	"log"
	"net/mail"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
	logsvc "github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/services/logger"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/storage/inmem"
)

// Session cookie values seeded by SeedDB.
const (
	CookieName      = "JSESSIONID"
	AdminToken      = "admin-session"
	CommitteeToken  = "committee-session"
	SupervisorToken = "supervisor-session"
	StudentToken    = "student-session"
)

var (
	Admin      = user.User{ID: "u-admin", Name: "Admin", Email: "admin@uni.test", Role: user.RoleAdmin, Authenticated: true}
	Committee  = user.User{ID: "u-com", Name: "Committee", Email: "com@uni.test", Role: user.RoleCommittee, Authenticated: true}
	Supervisor = user.User{ID: "u-sup", Name: "Supervisor", Email: "sup@uni.test", Role: user.RoleSupervisor, Authenticated: true}
	Student    = user.User{ID: "s1", Name: "Alice Mwamba", Email: "alice@uni.test", Role: user.RoleStudent, Authenticated: true}
)

func Float(f float64) *float64 { return &f }

// Config returns a test configuration; nothing is read from the environment.
func Config() *core.Config {
	return &core.Config{
		AppName:          "FYP Portal",
		Env:              "TEST",
		TestMode:         true,
		DefaultFromEmail: mail.Address{Name: "FYP Portal", Address: "noreply@uni.test"},
		Backend: core.BackendConfig{
			BaseURL:           "http://backend.test",
			MaxConcurrency:    2,
			SessionCookieName: CookieName,
		},
		Server: core.ServerConfig{DisableReqLogs: true},
	}
}

func NewValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	fyp.InitValidators(validate, translator)
	return validate, translator
}

// Students is the seeded roster: three graded students and one pending.
func Students() []fyp.Student {
	return []fyp.Student{
		{
			StudentID: "s1", StudentName: "Alice Mwamba", Email: "alice@uni.test",
			Grade: "A", TotalScore: Float(28), IsGraded: true,
			Rubric1: Float(5), Rubric2: Float(5), Rubric3: Float(4), Rubric4: Float(5), Rubric5: Float(4), Rubric6: Float(5),
		},
		{
			StudentID: "s2", StudentName: "Bob Tshala", Email: "bob@uni.test",
			Grade: "B", TotalScore: Float(22), IsGraded: true,
			Rubric1: Float(4), Rubric2: Float(4), Rubric3: Float(3), Rubric4: Float(4), Rubric5: Float(3), Rubric6: Float(4),
		},
		{
			StudentID: "s3", StudentName: "Carol Ilunga", Email: "carol@uni.test",
			Grade: "A", TotalScore: Float(26), IsGraded: true,
		},
		{StudentID: "s4", StudentName: "Dan Kabila", Email: "dan@uni.test"},
	}
}

// SeedDB returns an in-memory backend with the test sessions and roster.
// s1 and s2 are supervised by Supervisor. s1 has an approved proposal and a pending design document.
func SeedDB() *inmem.DB {
	db := inmem.NewDB()
	db.AddSession(AdminToken, Admin)
	db.AddSession(CommitteeToken, Committee)
	db.AddSession(SupervisorToken, Supervisor)
	db.AddSession(StudentToken, Student)

	for i, st := range Students() {
		sup := "u-other"
		if i < 2 {
			sup = Supervisor.ID
		}
		db.AddStudent(st, sup)
	}

	db.AddSubmission("s1", fyp.Submission{
		FileID: "f-prop", Filename: "proposal.pdf", DocType: fyp.DocProposal,
		SubmittedAt: "2025-01-10T09:00:00", IsApproved: true,
	}, []byte("%PDF proposal"))
	db.AddSubmission("s1", fyp.Submission{
		FileID: "f-design", Filename: "design.pdf", DocType: fyp.DocDesign,
		SubmittedAt: "2025-02-10T09:00:00", SubmittedLate: true,
	}, []byte("%PDF design"))
	return db
}

// NewLogger returns a RollbarLogger that never reports to rollbar.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)
	return logger
}
