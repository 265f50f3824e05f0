package report

import (
	"sort"
	"strings"
)

// SearchFilter keeps the records where any of fields contains term, case-insensitively.
// Missing fields read as "". An empty term returns records unchanged.
func SearchFilter[T Record](records []T, term string, fields ...string) []T {
	if term == "" {
		return records
	}
	term = strings.ToLower(term)

	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(lookupString(r, f)), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Kind tells the sorter how to read a field and which sentinel replaces a missing value.
type Kind int

const (
	KindString Kind = iota // missing -> ""
	KindNumber             // missing -> 0
	KindGrade              // missing -> "Z", so ungraded sorts last ascending
)

const gradeSentinel = "Z"

type SortKey struct {
	Field string
	Kind  Kind
}

var (
	ByStudentID   = SortKey{Field: "studentId", Kind: KindString}
	ByStudentName = SortKey{Field: "studentName", Kind: KindString}
	ByEmail       = SortKey{Field: "email", Kind: KindString}
	ByGrade       = SortKey{Field: GradeField, Kind: KindGrade}
	ByTotalScore  = SortKey{Field: TotalScoreField, Kind: KindNumber}
	ByProgress    = SortKey{Field: "progress", Kind: KindNumber}
	ByFilename    = SortKey{Field: "filename", Kind: KindString}
	ByDocType     = SortKey{Field: "doc_type", Kind: KindString}
	BySubmittedAt = SortKey{Field: "submission_datetime", Kind: KindString}

	// SortKeys indexes the known keys by their field name.
	SortKeys = map[string]SortKey{}
)

func init() {
	for _, k := range []SortKey{
		ByStudentID, ByStudentName, ByEmail, ByGrade, ByTotalScore,
		ByProgress, ByFilename, ByDocType, BySubmittedAt,
	} {
		SortKeys[k.Field] = k
	}
}

type Order int

const (
	Ascending Order = iota
	Descending
)

// Compare orders a and b by key. It never returns 0: equal values compare as -1.
func Compare(a, b Record, key SortKey, order Order) int {
	var greater, less bool
	switch key.Kind {
	case KindNumber:
		x, _ := lookupNumber(a, key.Field)
		y, _ := lookupNumber(b, key.Field)
		greater, less = x > y, x < y
	default:
		sentinel := ""
		if key.Kind == KindGrade {
			sentinel = gradeSentinel
		}
		x, y := lookupString(a, key.Field), lookupString(b, key.Field)
		if x == "" {
			x = sentinel
		}
		if y == "" {
			y = sentinel
		}
		greater, less = x > y, x < y
	}

	if order == Descending {
		if less {
			return 1
		}
		return -1
	}
	if greater {
		return 1
	}
	return -1
}

// SortRecords returns a sorted copy of records.
//
// The sort is NOT stable: Compare never reports equality, so records with equal keys end up
// in an unspecified relative order.
func SortRecords[T Record](records []T, key SortKey, order Order) []T {
	out := make([]T, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool {
		// Compare never returns 0, so a tie is -1 both ways round and neither side is "less".
		return Compare(out[i], out[j], key, order) < 0 && Compare(out[j], out[i], key, order) > 0
	})
	return out
}

// ParseOrdering reads an ordering parameter such as "-totalScore,studentName".
// Only the first known field is used; a leading "-" sorts descending.
// ok is false when no field is known.
func ParseOrdering(val string) (key SortKey, order Order, ok bool) {
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:]
		}
		if key, ok = SortKeys[field]; !ok {
			continue
		}
		if descending {
			order = Descending
		}
		return key, order, true
	}
	return SortKey{}, Ascending, false
}
