// Package grading derives percentages, divisions and summary statistics
// from validated student marks.
package grading

import (
	"fmt"
	"math"
	"strconv"

	"github.com/stemsi/student-records/internal/model"
)

const (
	FirstDivisionMin  = 60.0
	SecondDivisionMin = 50.0
)

// CalculatePercentage averages five marks and rounds half-up to one
// decimal place.
func CalculatePercentage(m1, m2, m3, m4, m5 int) model.Percentage {
	total := m1 + m2 + m3 + m4 + m5
	return round1(float64(total) / 5)
}

// GetDivision classifies a percentage. Each band includes its lower bound.
func GetDivision(p model.Percentage) model.Division {
	switch {
	case p >= FirstDivisionMin:
		return model.DivisionFirst
	case p >= SecondDivisionMin:
		return model.DivisionSecond
	default:
		return model.DivisionThird
	}
}

// ParseMarks converts the five mark strings of a form to integers.
func ParseMarks(form model.FormData) ([5]int, error) {
	var marks [5]int
	for i, raw := range form.Marks() {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return marks, fmt.Errorf("parse %s: %w", model.MarkFields[i], err)
		}
		marks[i] = v
	}
	return marks, nil
}

// Derive builds a record from a validated form.
func Derive(form model.FormData) (model.StudentRecord, error) {
	m, err := ParseMarks(form)
	if err != nil {
		return model.StudentRecord{}, err
	}
	p := CalculatePercentage(m[0], m[1], m[2], m[3], m[4])
	return model.StudentRecord{
		Name:       form.Name,
		Age:        form.Age,
		Marks1:     form.Marks1,
		Marks2:     form.Marks2,
		Marks3:     form.Marks3,
		Marks4:     form.Marks4,
		Marks5:     form.Marks5,
		Percentage: p,
		Division:   GetDivision(p),
	}, nil
}

func round1(v float64) model.Percentage {
	return model.Percentage(math.Round(v*10) / 10)
}
