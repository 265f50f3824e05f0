package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoSession  = errors.New("a backend session cookie is required")
	searchFields  = []string{"studentId", "studentName", "email"}
	reportCSVName = "student-reports.csv"
)

type commandLine struct {
	fypSvc  *fyp.Service
	mailSvc core.EmailService
	out     io.Writer

	// connect builds fypSvc on first use, so that usage errors never prompt for a session.
	connect func() (*fyp.Service, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  report [-search TERM] [-ordering FIELD] [-mail ADDRESS] - student reports with charts")
	fmt.Fprintln(cli.out, "  results [-search TERM] [-ordering FIELD]                - grades and release status")
	fmt.Fprintln(cli.out, "  release                                                 - release grades to students")
	fmt.Fprintln(cli.out, "  hide                                                    - hide grades from students")
	fmt.Fprintln(cli.out, "  deadlines                                               - list submission deadlines")
	fmt.Fprintln(cli.out, "  deadline -type DOC_TYPE -date YYYY-MM-DD                - change a deadline")
	fmt.Fprintln(cli.out, "  progress [-search TERM] [-ordering FIELD]               - supervised students' progress")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "report":
		return cli.report(ctx, args[2:])
	case "results":
		return cli.results(ctx, args[2:])
	case "release":
		return cli.setReleased(ctx, true)
	case "hide":
		return cli.setReleased(ctx, false)
	case "deadlines":
		return cli.deadlines(ctx)
	case "deadline":
		return cli.deadline(ctx, args[2:])
	case "progress":
		return cli.progress(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) service() (*fyp.Service, error) {
	if cli.fypSvc == nil {
		svc, err := cli.connect()
		if err != nil {
			return nil, err
		}
		cli.fypSvc = svc
	}
	return cli.fypSvc, nil
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// tableQuery are the -search and -ordering flags shared by the table commands.
type tableQuery struct {
	search   *string
	ordering *string
}

func addTableQuery(fs *flag.FlagSet) tableQuery {
	return tableQuery{
		search:   fs.String("search", "", "Case-insensitive match on student id, name or email."),
		ordering: fs.String("ordering", "", "Sort field, prefixed with - for descending (e.g. -totalScore)."),
	}
}

func applyQuery[T report.Record](records []T, q tableQuery) []T {
	out := report.SearchFilter(records, core.CleanString(*q.search), searchFields...)
	if key, order, ok := report.ParseOrdering(*q.ordering); ok {
		out = report.SortRecords(out, key, order)
	}
	return out
}

// Commands

func (cli *commandLine) report(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("report")
	q := addTableQuery(fs)
	mailTo := fs.String("mail", "", "Email the report, with a CSV attachment, to this address.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var to *mail.Address
	if *mailTo != "" {
		addr, err := mail.ParseAddress(*mailTo)
		if err != nil {
			return &core.ValidationError{Err: pkgerrors.Wrapf(err, "invalid -mail address %q", *mailTo)}
		}
		to = addr
	}

	svc, err := cli.service()
	if err != nil {
		return err
	}
	students, err := svc.StudentReports(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "querying student reports")
	}

	var buf bytes.Buffer
	if err = printCharts(&buf, students); err != nil {
		return err
	}
	fmt.Fprintln(&buf)
	if err = printStudents(&buf, applyQuery(students, q)); err != nil {
		return err
	}
	if _, err = cli.out.Write(buf.Bytes()); err != nil {
		return err
	}
	if to == nil {
		return nil
	}

	data, err := studentsCSV(students)
	if err != nil {
		return err
	}
	msg := &core.EmailMessage{
		To:          []mail.Address{*to},
		Subject:     "Student reports",
		TextContent: buf.String(),
	}
	if err = msg.Attach(bytes.NewReader(data), reportCSVName, "text/csv"); err != nil {
		return pkgerrors.Wrap(err, "attaching report")
	}
	if err = cli.mailSvc.SendMessages(ctx, msg); err != nil {
		return pkgerrors.Wrap(err, "mailing report")
	}
	fmt.Fprintf(cli.out, "\nReport sent to %s\n", to.Address)
	return nil
}

func (cli *commandLine) results(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("results")
	q := addTableQuery(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	svc, err := cli.service()
	if err != nil {
		return err
	}
	students, err := svc.AllGrades(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "querying all grades")
	}
	status, err := svc.ReleaseStatus(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "getting release status")
	}

	printReleased(cli.out, bool(status.Released))
	printStatus(cli.out, report.GradingStatusSplit(students))
	fmt.Fprintln(cli.out)
	return printStudents(cli.out, applyQuery(students, q))
}

func (cli *commandLine) setReleased(ctx context.Context, released bool) error {
	svc, err := cli.service()
	if err != nil {
		return err
	}
	status, err := svc.SetGradesReleased(ctx, released)
	if err != nil {
		return pkgerrors.Wrap(err, "setting grade release")
	}
	printReleased(cli.out, bool(status.Released))
	return nil
}

func (cli *commandLine) deadlines(ctx context.Context) error {
	svc, err := cli.service()
	if err != nil {
		return err
	}
	deadlines, err := svc.Deadlines(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "querying deadlines")
	}
	return printDeadlines(cli.out, deadlines)
}

func (cli *commandLine) deadline(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("deadline")
	docType := fs.String("type", "", "Document type: Proposal, Design Document, Test Document or Thesis.")
	date := fs.String("date", "", "New deadline, formatted as YYYY-MM-DD.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *docType == "" && *date == "" {
		fs.Usage()
		return errHelp
	}

	svc, err := cli.service()
	if err != nil {
		return err
	}
	dc := fyp.DeadlineChange{DocType: fyp.DocType(*docType), DeadlineDate: *date}
	if err = svc.ChangeDeadline(ctx, dc); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s deadline set to %s\n", dc.DocType, dc.DeadlineDate)
	return nil
}

func (cli *commandLine) progress(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("progress")
	q := addTableQuery(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	svc, err := cli.service()
	if err != nil {
		return err
	}
	students, err := svc.Students(ctx, fyp.ScopeSupervised)
	if err != nil {
		return pkgerrors.Wrap(err, "querying supervised students")
	}
	roster, err := svc.SubmissionsForRoster(ctx, students)
	if err != nil {
		return pkgerrors.Wrap(err, "querying roster submissions")
	}

	rows := make([]fyp.StudentProgress, 0, len(roster))
	for _, entry := range roster {
		rows = append(rows, fyp.NewStudentProgress(entry.Student, entry.Submissions))
	}
	return printProgress(cli.out, applyQuery(rows, q))
}

// promptSession returns the configured session cookie, or reads one from the terminal.
func promptSession(conf *core.Config, out io.Writer) (string, error) {
	if conf.Backend.SessionCookie != "" {
		return conf.Backend.SessionCookie, nil
	}
	fmt.Fprintf(out, "Enter %s session cookie:", conf.Backend.SessionCookieName)
	secret, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", pkgerrors.Wrap(err, "reading session cookie")
	}
	session := core.CleanString(string(secret))
	if session == "" {
		return "", errNoSession
	}
	return session, nil
}
