package report

import "math"

// MilestoneFields are the four milestone flags of a student's progress record,
// one per document type.
var MilestoneFields = []string{"proposal", "design_document", "test_document", "thesis"}

// ProgressPercent returns the share of fields that are ABSENT (missing or falsy) in
// record, as a rounded integer percentage.
//
// Note the inversion: a record with every milestone present reports 0, one with a single
// absent milestone out of four reports 25. This is the behavior the dashboards have
// always shown and it is kept until product confirms what "progress" should mean.
func ProgressPercent(record Record, fields []string) int {
	if record == nil || len(fields) == 0 {
		return 0
	}
	absent := 0
	for _, f := range fields {
		if v, ok := record.Lookup(f); !ok || !Truthy(v) {
			absent++
		}
	}
	return int(math.Round(float64(absent) / float64(len(fields)) * 100))
}
