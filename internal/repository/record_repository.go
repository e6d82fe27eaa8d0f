package repository

import (
	"errors"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stemsi/student-records/internal/model"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrIndexOutOfRange = errors.New("record index out of range")
)

// RecordRepository is the ordered in-memory list of stored records.
// Records are addressed by ID; positions shift down after a delete.
type RecordRepository struct {
	mu      sync.RWMutex
	records []model.StudentRecord
}

// NewRecordRepository creates an empty RecordRepository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{}
}

// Add appends r with a freshly generated ID and returns the stored copy.
func (r *RecordRepository) Add(rec model.StudentRecord) model.StudentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = uuid.New()
	r.records = append(r.records, rec)
	return rec
}

// Update replaces the record with the given ID wholesale, keeping its
// ID and position.
func (r *RecordRepository) Update(id uuid.UUID, rec model.StudentRecord) (model.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.StudentRecord{}, ErrRecordNotFound
	}
	rec.ID = id
	r.records[i] = rec
	return rec, nil
}

// Delete removes the record with the given ID.
func (r *RecordRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrRecordNotFound
	}
	r.records = slices.Delete(r.records, i, i+1)
	return nil
}

// Get retrieves a record by ID.
func (r *RecordRepository) Get(id uuid.UUID) (model.StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.StudentRecord{}, ErrRecordNotFound
	}
	return r.records[i], nil
}

// At retrieves the record at a list position.
func (r *RecordRepository) At(index int) (model.StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.records) {
		return model.StudentRecord{}, ErrIndexOutOfRange
	}
	return r.records[index], nil
}

// List returns a copy of all records in order.
func (r *RecordRepository) List() []model.StudentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records)
}

// Len returns the number of stored records.
func (r *RecordRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Filter returns a lazy view of the records whose name and division
// contain the given substrings, ignoring case. Empty criteria match
// everything. Each iteration reads the list as it is at that moment.
func (r *RecordRepository) Filter(name, division string) iter.Seq[model.StudentRecord] {
	name = strings.ToLower(name)
	division = strings.ToLower(division)

	return func(yield func(model.StudentRecord) bool) {
		for _, rec := range r.List() {
			if !strings.Contains(strings.ToLower(rec.Name), name) {
				continue
			}
			if !strings.Contains(strings.ToLower(string(rec.Division)), division) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (r *RecordRepository) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(r.records, func(rec model.StudentRecord) bool {
		return rec.ID == id
	})
}
