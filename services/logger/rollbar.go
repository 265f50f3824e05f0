package logsvc

import (
	"fmt"
	"log"
	"sort"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

// RollbarLogger writes every entry to std and reports it to rollbar when enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(rollbarerrors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry is a log call sorted out of its loosely typed args.
type entry struct {
	msg    string
	err    error
	extras map[string]interface{}
	person *user.User
}

// newEntry reads args as: the first error, any number of extras maps (merged, later keys win)
// and the first authenticated session user. Anything else is kept as an "argN" extra.
// Backend failures add their method, path and status to the extras.
func newEntry(msg string, args []interface{}) entry {
	e := entry{msg: msg, extras: make(map[string]interface{})}
	for i, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if e.person == nil && a.Authenticated {
				usr := a
				e.person = &usr
			}
		case error:
			if e.err == nil {
				e.err = a
			}
			var reqErr *core.RequestError
			if errors.As(a, &reqErr) {
				e.extras["backend_method"] = reqErr.Method
				e.extras["backend_path"] = reqErr.Path
				e.extras["backend_status"] = reqErr.StatusCode
			}
		case map[string]interface{}:
			for k, v := range a {
				e.extras[k] = v
			}
		case nil:
		default:
			e.extras[fmt.Sprintf("arg%d", i)] = a
		}
	}
	return e
}

// rollbarArgs sets the rollbar person and returns the args of a rollbar call.
func (e entry) rollbarArgs() []interface{} {
	if e.person != nil {
		rollbar.SetPerson(e.person.ID, e.person.Name, e.person.Email)
	} else {
		rollbar.ClearPerson()
	}

	args := []interface{}{e.msg}
	if e.err != nil {
		args = append(args, e.err)
	}
	if len(e.extras) > 0 {
		args = append(args, e.extras)
	}
	return args
}

func (l RollbarLogger) print(e entry) {
	l.std.Println(e.msg)
	if e.err != nil {
		l.std.Printf("%+v\n", e.err)
	}
	keys := make([]string, 0, len(e.extras))
	for k := range e.extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		l.std.Printf("  %s=%v\n", k, e.extras[k])
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Debug(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Info(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Warning(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Error(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Critical(e.rollbarArgs()...)
	l.print(e)
	l.std.Fatal(msg)
}
