package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatScore(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// bar draws a bar of up to 20 cells for a 0-100 percentage.
func bar(percent int) string {
	return strings.Repeat("#", percent/5)
}

func printStudents(w io.Writer, students []fyp.Student) error {
	if len(students) == 0 {
		_, err := fmt.Fprintln(w, "No students.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tGRADE\tSCORE")
	for _, st := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			st.StudentID, st.StudentName, st.Email, orDash(st.Grade), formatScore(st.TotalScore))
	}
	return tw.Flush()
}

func printStatus(w io.Writer, status report.Status) {
	fmt.Fprintf(w, "Graded: %d/%d (%d%%)  Pending: %d (%d%%)\n",
		status.Graded, status.Total, status.GradedPercent, status.Pending, status.PendingPercent)
}

func printReleased(w io.Writer, released bool) {
	if released {
		fmt.Fprintln(w, "Grades released: yes")
		return
	}
	fmt.Fprintln(w, "Grades released: no")
}

// printCharts renders the dashboard aggregates of the whole roster.
func printCharts(w io.Writer, students []fyp.Student) error {
	printStatus(w, report.GradingStatusSplit(students))

	tw := newTable(w)
	fmt.Fprintln(tw, "\nGRADE\tCOUNT\t")
	for _, b := range report.DistributionBars(report.GradeDistribution(students)) {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Label, b.Count, bar(b.Percent))
	}

	fmt.Fprintln(tw, "\nSCORE\tCOUNT\t")
	for _, b := range report.HistogramBars(report.ScoreHistogram(students, report.DefaultScoreBins)) {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Label, b.Count, bar(b.Percent))
	}

	fmt.Fprintln(tw, "\nRUBRIC\tAVERAGE\t")
	averages := report.RubricAverages(students, report.RubricKeys)
	for _, key := range report.RubricKeys {
		fmt.Fprintf(tw, "%s\t%.2f\t\n", key, averages[key])
	}
	return tw.Flush()
}

func printProgress(w io.Writer, rows []fyp.StudentProgress) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No students.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPROGRESS\tSUBMITTED\tAPPROVED\tPENDING\tLATE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t%d\t%d\t%d\t%d\n",
			r.StudentID, r.StudentName, r.Progress, r.Counts.Total, r.Counts.Approved, r.Counts.Pending, r.Counts.Late)
	}
	return tw.Flush()
}

func printDeadlines(w io.Writer, deadlines []fyp.Deadline) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "DOCUMENT\tDEADLINE")
	for _, d := range deadlines {
		fmt.Fprintf(tw, "%s\t%s\n", d.DocType, orDash(d.DeadlineDate))
	}
	return tw.Flush()
}

// studentsCSV exports the roster with one column per rubric; missing scores are empty cells.
func studentsCSV(students []fyp.Student) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"studentId", "studentName", "email", "grade", "totalScore"}, report.RubricKeys...)
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "writing csv header")
	}
	for _, st := range students {
		row := []string{string(st.StudentID), st.StudentName, st.Email, st.Grade, csvScore(st.TotalScore)}
		for _, r := range st.Rubrics() {
			row = append(row, csvScore(r))
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "writing csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flushing csv")
	}
	return buf.Bytes(), nil
}

func csvScore(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
