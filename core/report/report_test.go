package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeDistribution(t *testing.T) {
	tests := []struct {
		name    string
		records []Fields
		want    map[Grade]int
	}{
		{name: "empty", want: map[Grade]int{GradeA: 0, GradeB: 0, GradeC: 0, GradeD: 0, GradeF: 0}},
		{
			name: "A A B F",
			records: []Fields{
				{"grade": "A"}, {"grade": "A"}, {"grade": "B"}, {"grade": "F"},
			},
			want: map[Grade]int{GradeA: 2, GradeB: 1, GradeC: 0, GradeD: 0, GradeF: 1},
		},
		{
			name: "pending and unknown grades are ignored",
			records: []Fields{
				{"grade": "C"}, {"grade": nil}, {}, {"grade": "E"}, {"grade": ""}, {"grade": "a"},
			},
			want: map[Grade]int{GradeA: 0, GradeB: 0, GradeC: 1, GradeD: 0, GradeF: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeDistribution(tt.records))
		})
	}
}

func TestGradingStatusSplit(t *testing.T) {
	tests := []struct {
		name    string
		records []Fields
		want    Status
	}{
		{name: "empty roster", want: Status{}},
		{
			name:    "all pending",
			records: []Fields{{"isGraded": false}, {}},
			want:    Status{Pending: 2, Total: 2, PendingPercent: 100},
		},
		{
			name:    "mixed",
			records: []Fields{{"isGraded": true}, {"isGraded": "true"}, {"isGraded": 0.0}},
			want:    Status{Graded: 2, Pending: 1, Total: 3, GradedPercent: 67, PendingPercent: 33},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradingStatusSplit(tt.records))
		})
	}
}

func TestRubricAverages(t *testing.T) {
	t.Run("empty list averages to zero", func(t *testing.T) {
		avgs := RubricAverages([]Fields{}, RubricKeys)
		assert.Len(t, avgs, len(RubricKeys))
		for _, key := range RubricKeys {
			assert.False(t, math.IsNaN(avgs[key]), key)
			assert.Equal(t, 0.0, avgs[key], key)
		}
	})

	t.Run("only defined values count", func(t *testing.T) {
		records := []Fields{
			{"rubric1": 5.0, "rubric2": 4.0, "rubric3": nil},
			{"rubric1": 4.0, "rubric2": "3"},
			{"rubric1": 4.0},
		}
		avgs := RubricAverages(records, RubricKeys)
		assert.Equal(t, 4.3, avgs["rubric1"])
		assert.Equal(t, 3.5, avgs["rubric2"])
		assert.Equal(t, 0.0, avgs["rubric3"])
		assert.Equal(t, 0.0, avgs["rubric6"])
	})
}

func TestScoreHistogram(t *testing.T) {
	t.Run("default bins are disjoint and exhaustive", func(t *testing.T) {
		assert.True(t, BinsCover(DefaultScoreBins, 0, 30))
		for s := 0; s <= 30; s++ {
			hist := ScoreHistogram([]Fields{{"totalScore": float64(s)}}, DefaultScoreBins)
			total := 0
			for _, b := range hist {
				total += b.Count
			}
			assert.Equal(t, 1, total, "score %d", s)
		}
	})

	t.Run("overlapping bins are detected", func(t *testing.T) {
		bins := []Bin{{Label: "0-15", Min: 0, Max: 15}, {Label: "15-30", Min: 15, Max: 30}}
		assert.False(t, BinsCover(bins, 0, 30))
		assert.False(t, BinsCover(DefaultScoreBins[:4], 0, 30))
	})

	t.Run("missing scores land in no bin", func(t *testing.T) {
		records := []Fields{
			{"studentName": "Alice", "grade": "A", "totalScore": 28.0, "isGraded": true},
			{"studentName": "Bob"},
		}
		assert.Equal(t, Status{Graded: 1, Pending: 1, Total: 2, GradedPercent: 50, PendingPercent: 50}, GradingStatusSplit(records))

		hist := ScoreHistogram(records, DefaultScoreBins)
		if assert.Len(t, hist, 5) {
			assert.Equal(t, "25-30", hist[0].Label)
			assert.Equal(t, 1, hist[0].Count)
			for _, b := range hist[1:] {
				assert.Equal(t, 0, b.Count, b.Label)
			}
		}
	})
}

func TestApprovalCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{name: `"false"`, value: "false"},
		{name: `"0"`, value: "0"},
		{name: "0", value: 0},
		{name: "0.0", value: 0.0},
		{name: "false", value: false},
		{name: "nil", value: nil},
		{name: `""`, value: ""},
		{name: "true", value: true, want: true},
		{name: "1", value: 1, want: true},
		{name: "1.0", value: 1.0, want: true},
		{name: `"1"`, value: "1", want: true},
		{name: `"true"`, value: "true", want: true},
		{name: `"yes"`, value: "yes", want: true},
		{name: `"False"`, value: "False", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApprovalCoercion(tt.value))
		})
	}

	t.Run("decoded json values", func(t *testing.T) {
		for raw, want := range map[string]bool{
			`true`: true, `false`: false, `"true"`: true, `"false"`: false,
			`1`: true, `0`: false, `"0"`: false, `null`: false, `"yes"`: true,
		} {
			var v interface{}
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				t.Fatalf("json.Unmarshal(%s): %v", raw, err)
			}
			assert.Equal(t, want, ApprovalCoercion(v), raw)
		}
	})
}

func TestSearchFilter(t *testing.T) {
	records := []Fields{
		{"studentId": "s-1", "studentName": "Alice Mwamba", "email": "alice@uni.test"},
		{"studentId": "s-2", "studentName": "Bob", "email": "BOB@UNI.TEST"},
		{"studentId": 33.0, "studentName": "Carol"},
	}

	tests := []struct {
		name   string
		term   string
		fields []string
		want   []Fields
	}{
		{name: "empty term is identity", term: "", fields: []string{"studentName"}, want: records},
		{name: "empty term without fields", term: "", want: records},
		{name: "case insensitive", term: "ALICE", fields: []string{"studentName"}, want: records[:1]},
		{name: "any field", term: "uni.test", fields: []string{"studentName", "email"}, want: records[:2]},
		{name: "numbers coerced to strings", term: "33", fields: []string{"studentId"}, want: records[2:]},
		{name: "missing field reads empty", term: "@", fields: []string{"email"}, want: records[:2]},
		{name: "no match", term: "zed", fields: []string{"studentName", "email"}, want: []Fields{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchFilter(records, tt.term, tt.fields...))
		})
	}
}

func TestSortRecords(t *testing.T) {
	records := []Fields{
		{"studentName": "Dora", "grade": nil, "totalScore": nil},
		{"studentName": "Alice", "grade": "B", "totalScore": 22.0},
		{"studentName": "Carl", "grade": "A", "totalScore": 28.0},
		{"studentName": "Bea", "totalScore": 9.0},
	}
	names := func(rs []Fields) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r["studentName"].(string))
		}
		return out
	}

	tests := []struct {
		name  string
		key   SortKey
		order Order
		want  []string
	}{
		{name: "name asc", key: ByStudentName, want: []string{"Alice", "Bea", "Carl", "Dora"}},
		{name: "name desc", key: ByStudentName, order: Descending, want: []string{"Dora", "Carl", "Bea", "Alice"}},
		{name: "score asc, missing is 0", key: ByTotalScore, want: []string{"Dora", "Bea", "Alice", "Carl"}},
		{name: "score desc", key: ByTotalScore, order: Descending, want: []string{"Carl", "Alice", "Bea", "Dora"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(SortRecords(records, tt.key, tt.order)))
		})
	}

	t.Run("grade asc puts ungraded last", func(t *testing.T) {
		sorted := SortRecords(records, ByGrade, Ascending)
		assert.Equal(t, []string{"Carl", "Alice"}, names(sorted[:2]))
		assert.ElementsMatch(t, []string{"Dora", "Bea"}, names(sorted[2:]))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := names(records)
		_ = SortRecords(records, ByStudentName, Descending)
		assert.Equal(t, before, names(records))
	})

	t.Run("compare never returns 0", func(t *testing.T) {
		a, b := Fields{"grade": "A"}, Fields{"grade": "A"}
		assert.Equal(t, -1, Compare(a, b, ByGrade, Ascending))
		assert.Equal(t, -1, Compare(a, b, ByGrade, Descending))
	})
}

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		val       string
		wantKey   SortKey
		wantOrder Order
		wantOk    bool
	}{
		{val: ""},
		{val: "shoeSize"},
		{val: "studentName", wantKey: ByStudentName, wantOk: true},
		{val: "-totalScore,studentName", wantKey: ByTotalScore, wantOrder: Descending, wantOk: true},
		{val: "nope, -grade", wantKey: ByGrade, wantOrder: Descending, wantOk: true},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			key, order, ok := ParseOrdering(tt.val)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   int
	}{
		{name: "one absent of four", record: Fields{"proposal": true, "design_document": "yes", "test_document": 1.0, "thesis": false}, want: 25},
		{name: "one missing of four", record: Fields{"proposal": true, "design_document": true, "test_document": true}, want: 25},
		{name: "all present", record: Fields{"proposal": true, "design_document": true, "test_document": true, "thesis": true}, want: 0},
		{name: "nothing present", record: Fields{}, want: 100},
		{name: "nil record", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressPercent(tt.record, MilestoneFields))
		})
	}
}

func TestCharts(t *testing.T) {
	bars := DistributionBars(map[Grade]int{GradeA: 4, GradeB: 2})
	assert.Equal(t, []Bar{
		{Label: "A", Count: 4, Percent: 100},
		{Label: "B", Count: 2, Percent: 50},
		{Label: "C"}, {Label: "D"}, {Label: "F"},
	}, bars)

	hist := HistogramBars(ScoreHistogram([]Fields{}, DefaultScoreBins))
	assert.Len(t, hist, 5)
	for _, b := range hist {
		assert.Zero(t, b.Percent)
	}

	slices := StatusSlices(Status{Graded: 1, Pending: 3, Total: 4, GradedPercent: 25, PendingPercent: 75})
	assert.Equal(t, []Slice{{Label: "Graded", Count: 1, Percent: 25}, {Label: "Pending", Count: 3, Percent: 75}}, slices)
}
