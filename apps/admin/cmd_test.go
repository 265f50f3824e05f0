package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
	emailsvc "github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/services/email"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/storage/inmem"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/tests"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer, *emailsvc.ConsoleService) {
	t.Helper()

	conf := testutil.Config()
	validate, _ := testutil.NewValidate()
	out := new(bytes.Buffer)
	mailSvc := emailsvc.NewConsoleService(conf, nil)

	cli := &commandLine{
		fypSvc:  fyp.NewService(inmem.NewFypRepository(testutil.SeedDB()), validate, conf.Backend.MaxConcurrency),
		mailSvc: mailSvc,
		out:     out,
	}
	return cli, out, mailSvc
}

func sessionContext(session string) context.Context {
	return user.ContextWithCookie(context.Background(), &http.Cookie{Name: testutil.CookieName, Value: session})
}

type cliTest struct {
	name    string
	args    []string // without program name
	session string
	wantErr error
	checkErr func(t *testing.T, err error)
	wantOut []string
}

func runCLITests(t *testing.T, tests []cliTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out, _ := setup(t)
			session := tt.session
			if session == "" {
				session = testutil.CommitteeToken
			}

			err := cli.run(sessionContext(session), append([]string{"fypctl"}, tt.args...))
			switch {
			case tt.checkErr != nil:
				tt.checkErr(t, err)
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			default:
				assert.NoError(t, err)
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "flag help", args: []string{"results", "-h"}, wantErr: errHelp, wantOut: []string{"-ordering"}},
		{
			name: "unknown flag", args: []string{"results", "-lol"},
			checkErr: func(t *testing.T, err error) { assert.EqualError(t, err, "flag provided but not defined: -lol") },
		},
		{
			name: "rejected session", args: []string{"report"}, session: testutil.StudentToken,
			checkErr: func(t *testing.T, err error) { assert.True(t, core.IsAuthExpired(err)) },
		},
	})

	t.Run("usage errors do not connect", func(t *testing.T) {
		cli := &commandLine{out: new(bytes.Buffer), connect: func() (*fyp.Service, error) {
			t.Fatal("connect called")
			return nil, nil
		}}
		assert.Equal(t, errHelp, cli.run(context.Background(), []string{"fypctl", "lol"}))
	})

	t.Run("connect failure", func(t *testing.T) {
		cli := &commandLine{out: new(bytes.Buffer), connect: func() (*fyp.Service, error) {
			return nil, errNoSession
		}}
		assert.Equal(t, errNoSession, cli.run(context.Background(), []string{"fypctl", "release"}))
	})
}

func Test_commandLine_report(t *testing.T) {
	runCLITests(t, []cliTest{
		{
			name: "charts", args: []string{"report"}, session: testutil.AdminToken,
			wantOut: []string{"Graded: 3/4 (75%)  Pending: 1 (25%)", "25-30", "rubric1", "4.50", "Dan Kabila"},
		},
		{
			name: "search", args: []string{"report", "-search", "BOB"}, session: testutil.AdminToken,
			wantOut: []string{"Bob Tshala", "Graded: 3/4"},
		},
		{
			name: "invalid mail address", args: []string{"report", "-mail", "not an address"}, session: testutil.AdminToken,
			checkErr: func(t *testing.T, err error) {
				var verr *core.ValidationError
				assert.True(t, errors.As(err, &verr), "got %v", err)
			},
		},
	})

	t.Run("search filters the table only", func(t *testing.T) {
		cli, out, _ := setup(t)
		err := cli.run(sessionContext(testutil.AdminToken), []string{"fypctl", "report", "-search", "bob"})
		assert.NoError(t, err)
		assert.NotContains(t, out.String(), "Alice Mwamba")
	})

	t.Run("mail", func(t *testing.T) {
		cli, out, mailSvc := setup(t)
		err := cli.run(sessionContext(testutil.AdminToken), []string{"fypctl", "report", "-mail", "Dean <dean@uni.test>"})
		if !assert.NoError(t, err) {
			return
		}
		assert.Contains(t, out.String(), "Report sent to dean@uni.test")
		if !assert.Len(t, mailSvc.Sent, 1) {
			return
		}
		msg := mailSvc.Sent[0]
		assert.Equal(t, "dean@uni.test", msg.To[0].Address)
		assert.Contains(t, msg.TextContent, "Graded: 3/4")
		if assert.Len(t, msg.Attachments, 1) {
			at := msg.Attachments[0]
			assert.Equal(t, reportCSVName, at.Filename)
			assert.Equal(t, "text/csv", at.ContentType)

			data, err := base64.StdEncoding.DecodeString(at.Content.String())
			assert.NoError(t, err)
			assert.Contains(t, string(data), "studentId,studentName,email,grade,totalScore,rubric1")
			assert.Contains(t, string(data), "s1,Alice Mwamba,alice@uni.test,A,28,5,5,4,5,4,5")
			assert.Contains(t, string(data), "s4,Dan Kabila,dan@uni.test,,,,,,,,")
		}
	})
}

func Test_commandLine_results(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "results", args: []string{"results", "-ordering", "-totalScore"}, wantOut: []string{"Grades released: no", "Carol Ilunga"}},
		{name: "release", args: []string{"release"}, wantOut: []string{"Grades released: yes"}},
		{name: "hide", args: []string{"hide"}, session: testutil.AdminToken, wantOut: []string{"Grades released: no"}},
		{
			name: "supervisor cannot release", args: []string{"release"}, session: testutil.SupervisorToken,
			checkErr: func(t *testing.T, err error) { assert.True(t, core.IsAuthExpired(err)) },
		},
	})
}

func Test_commandLine_deadline(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no flags", args: []string{"deadline"}, wantErr: errHelp},
		{
			name: "missing date", args: []string{"deadline", "-type", "Thesis"},
			checkErr: func(t *testing.T, err error) {
				var verrs validator.ValidationErrors
				if assert.True(t, errors.As(err, &verrs), "got %v", err) {
					assert.Equal(t, "deadline_date", verrs[0].Field())
				}
			},
		},
		{
			name: "unknown type", args: []string{"deadline", "-type", "Poster", "-date", "2025-06-01"},
			checkErr: func(t *testing.T, err error) {
				var verrs validator.ValidationErrors
				if assert.True(t, errors.As(err, &verrs), "got %v", err) {
					assert.Equal(t, "doc_type", verrs[0].Field())
				}
			},
		},
		{
			name: "change", args: []string{"deadline", "-type", "Design Document", "-date", "2025-03-01"},
			wantOut: []string{"Design Document deadline set to 2025-03-01"},
		},
		{name: "list", args: []string{"deadlines"}, wantOut: []string{"DOCUMENT", "Test Document"}},
	})
}

func Test_commandLine_progress(t *testing.T) {
	runCLITests(t, []cliTest{
		{
			name: "progress", args: []string{"progress", "-ordering", "-progress"}, session: testutil.SupervisorToken,
			wantOut: []string{"PROGRESS", "Alice Mwamba", "75%", "Bob Tshala", "100%"},
		},
		{
			name: "search", args: []string{"progress", "-search", "zed"}, session: testutil.SupervisorToken,
			wantOut: []string{"No students."},
		},
	})
}

func Test_promptSession(t *testing.T) {
	defer func(f func(int) ([]byte, error)) { readPasswordFunc = f }(readPasswordFunc)

	tests := []struct {
		name       string
		configured string
		typed      string
		readErr    error
		want       string
		wantErr    bool
	}{
		{name: "configured", configured: "from-env", want: "from-env"},
		{name: "prompted", typed: "  abc123 \n", want: "abc123"},
		{name: "empty", typed: "   ", wantErr: true},
		{name: "read error", readErr: errors.New("not a terminal"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompted := false
			readPasswordFunc = func(int) ([]byte, error) {
				prompted = true
				return []byte(tt.typed), tt.readErr
			}
			conf := testutil.Config()
			conf.Backend.SessionCookie = tt.configured

			out := new(bytes.Buffer)
			got, err := promptSession(conf, out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.configured == "", prompted)
			if prompted {
				assert.Contains(t, out.String(), "Enter JSESSIONID session cookie:")
			}
		})
	}
}
