package model

import (
	"strconv"

	"github.com/google/uuid"
)

// Field identifies one of the seven text inputs of the record form.
type Field string

const (
	FieldName   Field = "name"
	FieldAge    Field = "age"
	FieldMarks1 Field = "marks1"
	FieldMarks2 Field = "marks2"
	FieldMarks3 Field = "marks3"
	FieldMarks4 Field = "marks4"
	FieldMarks5 Field = "marks5"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldAge, FieldMarks1, FieldMarks2, FieldMarks3, FieldMarks4, FieldMarks5}

// MarkFields lists the five mark fields in order.
var MarkFields = []Field{FieldMarks1, FieldMarks2, FieldMarks3, FieldMarks4, FieldMarks5}

// ParseField returns the Field named by s and whether it is a known field.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// MarkNumber returns N for the field marksN, or 0 for any other field.
func (f Field) MarkNumber() int {
	for i, m := range MarkFields {
		if f == m {
			return i + 1
		}
	}
	return 0
}

// Label returns the human-readable input label.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Student Name"
	case FieldAge:
		return "Student Age"
	}
	if n := f.MarkNumber(); n > 0 {
		return "Marks " + strconv.Itoa(n)
	}
	return string(f)
}

// FieldErrors maps a field to its current validation message.
// Fields without an error are absent.
type FieldErrors map[Field]string

// Strings converts the map into plain string keys for JSON envelopes.
func (e FieldErrors) Strings() map[string]string {
	out := make(map[string]string, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}

// MaxInputLength bounds every form input on every surface. The binding
// tags below and in handler.SetFieldRequest must use the same number.
const MaxInputLength = 200

// FormData is the raw, unvalidated content of the record form.
type FormData struct {
	Name   string `json:"name" binding:"max=200"`
	Age    string `json:"age" binding:"max=200"`
	Marks1 string `json:"marks1" binding:"max=200"`
	Marks2 string `json:"marks2" binding:"max=200"`
	Marks3 string `json:"marks3" binding:"max=200"`
	Marks4 string `json:"marks4" binding:"max=200"`
	Marks5 string `json:"marks5" binding:"max=200"`
}

// Value returns the raw value of the given field.
func (f FormData) Value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldAge:
		return f.Age
	case FieldMarks1:
		return f.Marks1
	case FieldMarks2:
		return f.Marks2
	case FieldMarks3:
		return f.Marks3
	case FieldMarks4:
		return f.Marks4
	case FieldMarks5:
		return f.Marks5
	}
	return ""
}

// With returns a copy of the form with field set to value.
// Unknown fields leave the form unchanged.
func (f FormData) With(field Field, value string) FormData {
	switch field {
	case FieldName:
		f.Name = value
	case FieldAge:
		f.Age = value
	case FieldMarks1:
		f.Marks1 = value
	case FieldMarks2:
		f.Marks2 = value
	case FieldMarks3:
		f.Marks3 = value
	case FieldMarks4:
		f.Marks4 = value
	case FieldMarks5:
		f.Marks5 = value
	}
	return f
}

// Marks returns the five raw mark values in order.
func (f FormData) Marks() [5]string {
	return [5]string{f.Marks1, f.Marks2, f.Marks3, f.Marks4, f.Marks5}
}

// Division is the coarse grade band derived from a percentage.
type Division string

const (
	DivisionFirst  Division = "First Division"
	DivisionSecond Division = "Second Division"
	DivisionThird  Division = "Third Division"
)

// Divisions lists every division from highest to lowest.
var Divisions = []Division{DivisionFirst, DivisionSecond, DivisionThird}

// Percentage is the mean of the five marks, kept at one decimal place.
type Percentage float64

// String formats the percentage with exactly one decimal.
func (p Percentage) String() string {
	return strconv.FormatFloat(float64(p), 'f', 1, 64)
}

// MarshalJSON writes the percentage as a number with one decimal (60.0).
func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// StudentRecord is a validated, stored form submission.
type StudentRecord struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Age        string     `json:"age"`
	Marks1     string     `json:"marks1"`
	Marks2     string     `json:"marks2"`
	Marks3     string     `json:"marks3"`
	Marks4     string     `json:"marks4"`
	Marks5     string     `json:"marks5"`
	Percentage Percentage `json:"percentage"`
	Division   Division   `json:"division"`
}

// Form returns the record's seven raw fields, used to load it for editing.
func (r StudentRecord) Form() FormData {
	return FormData{
		Name:   r.Name,
		Age:    r.Age,
		Marks1: r.Marks1,
		Marks2: r.Marks2,
		Marks3: r.Marks3,
		Marks4: r.Marks4,
		Marks5: r.Marks5,
	}
}

// Filter holds the two live substring criteria of the records table.
type Filter struct {
	Name     string `json:"name" form:"name" binding:"max=100"`
	Division string `json:"division" form:"division" binding:"max=100"`
}
