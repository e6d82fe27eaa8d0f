package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stemsi/student-records/internal/model"
)

var (
	agePattern   = regexp.MustCompile(`^[0-9]+$`)
	marksPattern = regexp.MustCompile(`^-?\d+$`)
)

const (
	MsgNameRequired = "Name is required."
	MsgAgeNumber    = "Age must be a number."
	MinMarks        = 0
	MaxMarks        = 100
)

// ValidateField returns the error message for a single raw field value,
// or "" when the value is acceptable. Unknown fields never fail.
func ValidateField(field model.Field, value string) string {
	switch field {
	case model.FieldName:
		if strings.TrimSpace(value) == "" {
			return MsgNameRequired
		}
		return ""
	case model.FieldAge:
		if !agePattern.MatchString(value) {
			return MsgAgeNumber
		}
		return ""
	}

	n := field.MarkNumber()
	if n == 0 {
		return ""
	}
	if !marksPattern.MatchString(value) {
		return fmt.Sprintf("Marks %d must be a number.", n)
	}
	switch sign := compareMarks(value); {
	case sign < 0:
		return fmt.Sprintf("Marks %d cannot be negative.", n)
	case sign > 0:
		return fmt.Sprintf("Marks %d cannot exceed 100.", n)
	}
	return ""
}

// compareMarks reports -1 when the integer text is below MinMarks,
// 1 when it is above MaxMarks, 0 otherwise. Values outside int64 are
// classified by their sign.
func compareMarks(value string) int {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && strings.HasPrefix(value, "-") {
			return -1
		}
		return 1
	}
	switch {
	case v < MinMarks:
		return -1
	case v > MaxMarks:
		return 1
	}
	return 0
}

// ValidateAll runs every field rule against form and returns the fresh
// error map together with whether all fields passed.
func ValidateAll(form model.FormData) (model.FieldErrors, bool) {
	errs := make(model.FieldErrors)
	for _, f := range model.Fields {
		if msg := ValidateField(f, form.Value(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs, len(errs) == 0
}
