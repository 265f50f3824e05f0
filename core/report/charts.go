package report

// Bar is one chart bar. Percent is the bar height relative to the tallest bar,
// so zero-count bars still get an entry.
type Bar struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// Slice is one pie slice; Percent is the share of the whole.
type Slice struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// DistributionBars lays out a grade distribution as bars in A..F order.
func DistributionBars(dist map[Grade]int) []Bar {
	bars := make([]Bar, 0, len(Grades))
	max := 0
	for _, g := range Grades {
		if dist[g] > max {
			max = dist[g]
		}
	}
	for _, g := range Grades {
		bars = append(bars, Bar{Label: string(g), Count: dist[g], Percent: percent(dist[g], max)})
	}
	return bars
}

// HistogramBars lays out histogram bins as bars, keeping the bin order.
func HistogramBars(bins []BinCount) []Bar {
	bars := make([]Bar, 0, len(bins))
	max := 0
	for _, b := range bins {
		if b.Count > max {
			max = b.Count
		}
	}
	for _, b := range bins {
		bars = append(bars, Bar{Label: b.Label, Count: b.Count, Percent: percent(b.Count, max)})
	}
	return bars
}

// StatusSlices splits a grading status into graded and pending pie slices.
func StatusSlices(st Status) []Slice {
	return []Slice{
		{Label: "Graded", Count: st.Graded, Percent: st.GradedPercent},
		{Label: "Pending", Count: st.Pending, Percent: st.PendingPercent},
	}
}
