package grading

import (
	"iter"

	"github.com/stemsi/student-records/internal/model"
)

// Summary holds statistics over a set of records.
type Summary struct {
	Count     int                    `json:"count"`
	Average   model.Percentage       `json:"average_percentage"`
	Highest   model.Percentage       `json:"highest_percentage"`
	Lowest    model.Percentage       `json:"lowest_percentage"`
	Divisions map[model.Division]int `json:"divisions"`
}

// Summarize computes count, mean, extremes and per-division counts.
// Percentages of an empty sequence are zero.
func Summarize(records iter.Seq[model.StudentRecord]) Summary {
	s := Summary{Divisions: make(map[model.Division]int, len(model.Divisions))}
	for _, d := range model.Divisions {
		s.Divisions[d] = 0
	}

	var total float64
	for r := range records {
		if s.Count == 0 || r.Percentage > s.Highest {
			s.Highest = r.Percentage
		}
		if s.Count == 0 || r.Percentage < s.Lowest {
			s.Lowest = r.Percentage
		}
		total += float64(r.Percentage)
		s.Divisions[r.Division]++
		s.Count++
	}
	if s.Count > 0 {
		s.Average = round1(total / float64(s.Count))
	}
	return s
}
