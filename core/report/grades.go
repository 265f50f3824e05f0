package report

import (
	"math"

	"github.com/montanaflynn/stats"
)

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Field names read by the grading aggregates.
const (
	GradeField      = "grade"
	IsGradedField   = "isGraded"
	TotalScoreField = "totalScore"
)

var (
	// Grades is the fixed grade scale, best first.
	Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}

	// RubricKeys are the six rubric fields, each scored 1-5.
	RubricKeys = []string{"rubric1", "rubric2", "rubric3", "rubric4", "rubric5", "rubric6"}

	// DefaultScoreBins partition the 0-30 total score range. Chart rendering depends on
	// these exact boundaries.
	DefaultScoreBins = []Bin{
		{Label: "25-30", Min: 25, Max: 30},
		{Label: "20-24", Min: 20, Max: 24},
		{Label: "15-19", Min: 15, Max: 19},
		{Label: "10-14", Min: 10, Max: 14},
		{Label: "0-9", Min: 0, Max: 9},
	}
)

func IsGrade(s string) bool {
	for _, g := range Grades {
		if string(g) == s {
			return true
		}
	}
	return false
}

// GradeDistribution counts records per grade. All five grades are always present;
// records with no grade, or a grade outside the scale, are ignored.
func GradeDistribution[T Record](records []T) map[Grade]int {
	dist := make(map[Grade]int, len(Grades))
	for _, g := range Grades {
		dist[g] = 0
	}
	for _, r := range records {
		g := lookupString(r, GradeField)
		if IsGrade(g) {
			dist[Grade(g)]++
		}
	}
	return dist
}

// Status is the graded/pending split of a roster.
type Status struct {
	Graded         int `json:"graded"`
	Pending        int `json:"pending"`
	Total          int `json:"total"`
	GradedPercent  int `json:"graded_percent"`
	PendingPercent int `json:"pending_percent"`
}

// GradingStatusSplit counts graded (isGraded truthy) and pending records.
// Percentages use a denominator of at least 1 so an empty roster yields 0%.
func GradingStatusSplit[T Record](records []T) Status {
	var st Status
	st.Total = len(records)
	for _, r := range records {
		if v, ok := r.Lookup(IsGradedField); ok && Truthy(v) {
			st.Graded++
		}
	}
	st.Pending = st.Total - st.Graded
	st.GradedPercent = percent(st.Graded, st.Total)
	st.PendingPercent = percent(st.Pending, st.Total)
	return st
}

// RubricAverages averages each key over the records where it is defined and numeric,
// rounded to one decimal. A key nobody has averages to 0.
func RubricAverages[T Record](records []T, keys []string) map[string]float64 {
	avgs := make(map[string]float64, len(keys))
	for _, key := range keys {
		data := make(stats.Float64Data, 0, len(records))
		for _, r := range records {
			if n, ok := lookupNumber(r, key); ok {
				data = append(data, n)
			}
		}
		avgs[key] = roundMean(data, 1)
	}
	return avgs
}

func roundMean(data stats.Float64Data, places int) float64 {
	if data.Len() == 0 {
		return 0
	}
	mean, err := data.Mean()
	if err != nil {
		return 0
	}
	rounded, err := stats.Round(mean, places)
	if err != nil {
		return 0
	}
	return rounded
}

// Bin is an inclusive [Min, Max] score range.
type Bin struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (b Bin) Contains(score float64) bool {
	return score >= b.Min && score <= b.Max
}

type BinCount struct {
	Bin
	Count int `json:"count"`
}

// ScoreHistogram counts records per score bin. Records without a total score fall in
// no bin; they are not treated as 0.
func ScoreHistogram[T Record](records []T, bins []Bin) []BinCount {
	counts := make([]BinCount, len(bins))
	for i, b := range bins {
		counts[i].Bin = b
	}
	for _, r := range records {
		score, ok := lookupNumber(r, TotalScoreField)
		if !ok {
			continue
		}
		for i := range counts {
			if counts[i].Contains(score) {
				counts[i].Count++
			}
		}
	}
	return counts
}

// BinsCover reports whether every integer score in [lo, hi] is claimed by exactly one bin.
func BinsCover(bins []Bin, lo, hi int) bool {
	for s := lo; s <= hi; s++ {
		claimed := 0
		for _, b := range bins {
			if b.Contains(float64(s)) {
				claimed++
			}
		}
		if claimed != 1 {
			return false
		}
	}
	return true
}

// percent is part/whole rounded to an integer, with whole treated as at least 1.
func percent(part, whole int) int {
	if whole < 1 {
		whole = 1
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
