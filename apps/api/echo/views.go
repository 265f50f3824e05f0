package echoapi

import (
	"math"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
)

// searchFields are the student fields matched by the "search" query param.
var searchFields = []string{"studentId", "studentName", "email"}

type (
	// ChartData holds the chart inputs derived from a roster.
	ChartData struct {
		Distribution     map[report.Grade]int `json:"grade_distribution"`
		DistributionBars []report.Bar         `json:"grade_bars"`
		Status           report.Status        `json:"status"`
		StatusSlices     []report.Slice       `json:"status_slices"`
		RubricAverages   map[string]float64   `json:"rubric_averages"`
		Histogram        []report.BinCount    `json:"score_histogram"`
		HistogramBars    []report.Bar         `json:"score_bars"`
	}

	// AdminReportsView is the admin dashboard. Charts describe the whole roster,
	// Students is the searched and sorted table.
	AdminReportsView struct {
		Students []fyp.Student `json:"students"`
		Empty    bool          `json:"empty"`
		Charts   ChartData     `json:"charts"`
	}

	// ReleaseResView is the committee's grade release screen.
	ReleaseResView struct {
		Students []fyp.Student `json:"students"`
		Empty    bool          `json:"empty"`
		Released bool          `json:"released"`
		Status   report.Status `json:"status"`
	}

	RosterView struct {
		Students []fyp.Student `json:"students"`
		Empty    bool          `json:"empty"`
	}

	MonProgressView struct {
		Students []fyp.StudentProgress `json:"students"`
		Empty    bool                  `json:"empty"`
	}

	SubmissionsView struct {
		Submissions []fyp.Submission     `json:"submissions"`
		Empty       bool                 `json:"empty"`
		Counts      fyp.SubmissionCounts `json:"counts"`
	}

	StudentStatusView struct {
		Milestones report.Fields `json:"milestones"`
		Progress   int           `json:"progress"`
	}

	// ViewGradesView is a student's own result.
	ViewGradesView struct {
		Grades   fyp.Student        `json:"grades"`
		Graded   bool               `json:"graded"`
		Rubrics  map[string]float64 `json:"rubrics"`
		Bars     []report.Bar       `json:"rubric_bars"`
		MaxScore int                `json:"max_score"`
	}

	DeadlinesView struct {
		Deadlines []fyp.Deadline `json:"deadlines"`
		Empty     bool           `json:"empty"`
	}
)

func newChartData(students []fyp.Student) ChartData {
	dist := report.GradeDistribution(students)
	status := report.GradingStatusSplit(students)
	hist := report.ScoreHistogram(students, report.DefaultScoreBins)
	return ChartData{
		Distribution:     dist,
		DistributionBars: report.DistributionBars(dist),
		Status:           status,
		StatusSlices:     report.StatusSlices(status),
		RubricAverages:   report.RubricAverages(students, report.RubricKeys),
		Histogram:        hist,
		HistogramBars:    report.HistogramBars(hist),
	}
}

// applyQuery filters by search term and sorts by ordering.
func applyQuery[T report.Record](records []T, search string, ord Ordering, fields ...string) []T {
	out := report.SearchFilter(records, search, fields...)
	if ord.Set {
		out = report.SortRecords(out, ord.Key, ord.Order)
	}
	return out
}

func newViewGrades(st fyp.Student) ViewGradesView {
	rubrics := report.RubricAverages([]fyp.Student{st}, report.RubricKeys)
	bars := make([]report.Bar, 0, len(report.RubricKeys))
	for _, key := range report.RubricKeys {
		score := rubrics[key]
		bars = append(bars, report.Bar{Label: key, Count: int(math.Round(score)), Percent: int(math.Round(score / 5 * 100))})
	}
	return ViewGradesView{
		Grades:   st,
		Graded:   bool(st.IsGraded),
		Rubrics:  rubrics,
		Bars:     bars,
		MaxScore: 30,
	}
}
