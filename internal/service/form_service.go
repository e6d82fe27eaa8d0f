package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/grading"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/validator"
)

const (
	LabelAdd     = "Add Record"
	LabelUpdate  = "Update Record"
	EmptyMessage = "No record found."
)

var (
	ErrValidationFailed = errors.New("form validation failed")
	ErrUnknownField     = errors.New("unknown form field")
)

// ValidationError carries the freshly computed field errors of a
// rejected submit. It matches ErrValidationFailed with errors.Is.
type ValidationError struct {
	Fields model.FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// FormState is the visible state of the entry form.
type FormState struct {
	Fields      model.FormData    `json:"fields"`
	Errors      map[string]string `json:"errors"`
	EditingID   *uuid.UUID        `json:"editing_id"`
	SubmitLabel string            `json:"submit_label"`
}

// View is everything a front end needs to render the page.
type View struct {
	Form    FormState             `json:"form"`
	Filter  model.Filter          `json:"filter"`
	Records []model.StudentRecord `json:"records"`
	Total   int                   `json:"total"`
	Summary grading.Summary       `json:"summary"`
	Message string                `json:"message,omitempty"`
}

// SubmitResult describes a successful submit. Form is the cleared form
// as it stood when the submit released the session.
type SubmitResult struct {
	Record  model.StudentRecord `json:"record"`
	Updated bool                `json:"updated"`
	Form    FormState           `json:"form"`
}

// FormService owns the single form session: the input buffer, its
// errors, the record being edited and the table filter. Every
// transition runs to completion under one lock.
type FormService struct {
	mu      sync.Mutex
	records *repository.RecordRepository
	log     zerolog.Logger

	form    model.FormData
	touched map[model.Field]bool
	errors  model.FieldErrors
	editing *uuid.UUID
	filter  model.Filter

	listeners []func(View)
}

// NewFormService creates a FormService with an empty form.
func NewFormService(records *repository.RecordRepository, log zerolog.Logger) *FormService {
	return &FormService{
		records: records,
		log:     log.With().Str("component", "form_service").Logger(),
		touched: make(map[model.Field]bool),
		errors:  make(model.FieldErrors),
	}
}

// SetField updates one input and re-derives the errors of every field
// the user has touched so far.
func (s *FormService) SetField(field model.Field, value string) (FormState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := model.ParseField(string(field)); !ok {
		return s.formState(), fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.form = s.form.With(field, value)
	s.touched[field] = true
	s.revalidate()

	s.log.Debug().Str("field", string(field)).Str("error", s.errors[field]).Msg("Field updated")
	s.publish()
	return s.formState(), nil
}

// ReplaceForm swaps the whole buffer and marks every field touched.
func (s *FormService) ReplaceForm(form model.FormData) FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = form
	for _, f := range model.Fields {
		s.touched[f] = true
	}
	s.revalidate()
	s.publish()
	return s.formState()
}

// Submit validates all fields against the current buffer and, when they
// all pass, stores the derived record. A rejected submit returns a
// *ValidationError and leaves the store untouched.
func (s *FormService) Submit() (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range model.Fields {
		s.touched[f] = true
	}
	errs, ok := validator.ValidateAll(s.form)
	s.errors = errs
	if !ok {
		s.log.Debug().Int("invalid_fields", len(errs)).Msg("Submit rejected")
		s.publish()
		return SubmitResult{}, &ValidationError{Fields: maps.Clone(errs)}
	}

	rec, err := grading.Derive(s.form)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("derive record: %w", err)
	}

	result := SubmitResult{}
	if s.editing != nil {
		rec, err = s.records.Update(*s.editing, rec)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("update record %s: %w", *s.editing, err)
		}
		result.Updated = true
	} else {
		rec = s.records.Add(rec)
	}
	result.Record = rec

	s.log.Info().
		Str("record_id", rec.ID.String()).
		Bool("updated", result.Updated).
		Str("percentage", rec.Percentage.String()).
		Str("division", string(rec.Division)).
		Msg("Record saved")

	s.clear()
	s.publish()
	result.Form = s.formState()
	return result, nil
}

// BeginEdit loads a stored record into the form and makes it the edit target.
func (s *FormService) BeginEdit(id uuid.UUID) (FormState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.records.Get(id)
	if err != nil {
		return s.formState(), err
	}

	s.form = rec.Form()
	s.touched = make(map[model.Field]bool)
	s.errors = make(model.FieldErrors)
	s.editing = &id
	s.publish()
	return s.formState(), nil
}

// Reset clears the form and abandons any edit in progress.
func (s *FormService) Reset() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
	s.publish()
	return s.formState()
}

// Delete removes a record. Deleting the edit target ends the edit but
// keeps the buffer, so a later submit adds a new record.
func (s *FormService) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.records.Delete(id); err != nil {
		return err
	}
	if s.editing != nil && *s.editing == id {
		s.editing = nil
	}

	s.log.Info().Str("record_id", id.String()).Msg("Record deleted")
	s.publish()
	return nil
}

// SetFilter changes the session's table filter.
func (s *FormService) SetFilter(f model.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.publish()
}

// Records materializes the records matching f.
func (s *FormService) Records(f model.Filter) []model.StudentRecord {
	out := slices.Collect(s.records.Filter(f.Name, f.Division))
	if out == nil {
		out = []model.StudentRecord{}
	}
	return out
}

// Summary computes statistics over the records matching f.
func (s *FormService) Summary(f model.Filter) grading.Summary {
	return grading.Summarize(s.records.Filter(f.Name, f.Division))
}

// Form returns the current form state.
func (s *FormService) Form() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formState()
}

// Snapshot returns the form together with the filtered table.
func (s *FormService) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// OnChange registers fn to receive the fresh view after every
// transition that changes the session. fn runs under the session lock,
// so it must not block or call back into the service.
func (s *FormService) OnChange(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *FormService) publish() {
	if len(s.listeners) == 0 {
		return
	}
	v := s.snapshot()
	for _, fn := range s.listeners {
		fn(v)
	}
}

func (s *FormService) snapshot() View {
	rows := s.Records(s.filter)
	v := View{
		Form:    s.formState(),
		Filter:  s.filter,
		Records: rows,
		Total:   s.records.Len(),
		Summary: grading.Summarize(slices.Values(rows)),
	}
	if len(rows) == 0 {
		v.Message = EmptyMessage
	}
	return v
}

// revalidate rebuilds the error map from the buffer for touched fields.
func (s *FormService) revalidate() {
	errs := make(model.FieldErrors)
	for f := range s.touched {
		if msg := validator.ValidateField(f, s.form.Value(f)); msg != "" {
			errs[f] = msg
		}
	}
	s.errors = errs
}

func (s *FormService) clear() {
	s.form = model.FormData{}
	s.touched = make(map[model.Field]bool)
	s.errors = make(model.FieldErrors)
	s.editing = nil
}

func (s *FormService) formState() FormState {
	st := FormState{
		Fields:      s.form,
		Errors:      s.errors.Strings(),
		SubmitLabel: LabelAdd,
	}
	if s.editing != nil {
		id := *s.editing
		st.EditingID = &id
		st.SubmitLabel = LabelUpdate
	}
	return st
}
