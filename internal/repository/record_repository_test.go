package repository

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/student-records/internal/model"
)

func record(name string, division model.Division) model.StudentRecord {
	return model.StudentRecord{
		Name: name, Age: "20",
		Marks1: "60", Marks2: "60", Marks3: "60", Marks4: "60", Marks5: "60",
		Percentage: 60, Division: division,
	}
}

func seed(t *testing.T, names ...string) (*RecordRepository, []model.StudentRecord) {
	t.Helper()
	repo := NewRecordRepository()
	var stored []model.StudentRecord
	for _, n := range names {
		stored = append(stored, repo.Add(record(n, model.DivisionFirst)))
	}
	return repo, stored
}

func TestAddAppendsLast(t *testing.T) {
	repo, _ := seed(t, "Anna", "Bob")
	added := repo.Add(record("Cara", model.DivisionThird))

	assert.NotEqual(t, uuid.Nil, added.ID)
	all := slices.Collect(repo.Filter("", ""))
	require.Len(t, all, 3)
	assert.Equal(t, added, all[len(all)-1])
}

func TestUpdateReplacesInPlace(t *testing.T) {
	repo, stored := seed(t, "Anna", "Bob", "Cara")

	replacement := record("Bobby", model.DivisionSecond)
	got, err := repo.Update(stored[1].ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, stored[1].ID, got.ID)

	at1, err := repo.At(1)
	require.NoError(t, err)
	assert.Equal(t, got, at1)

	at0, _ := repo.At(0)
	at2, _ := repo.At(2)
	assert.Equal(t, stored[0], at0)
	assert.Equal(t, stored[2], at2)
}

func TestUpdateUnknownID(t *testing.T) {
	repo, _ := seed(t, "Anna")
	_, err := repo.Update(uuid.New(), record("X", model.DivisionFirst))
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeletePreservesOrder(t *testing.T) {
	repo, stored := seed(t, "Anna", "Bob", "Cara", "Dan")

	require.NoError(t, repo.Delete(stored[1].ID))
	assert.Equal(t, 3, repo.Len())
	assert.Equal(t, []model.StudentRecord{stored[0], stored[2], stored[3]}, repo.List())

	assert.ErrorIs(t, repo.Delete(stored[1].ID), ErrRecordNotFound)
	assert.Equal(t, 3, repo.Len())
}

func TestAtOutOfRange(t *testing.T) {
	repo, _ := seed(t, "Anna")
	_, err := repo.At(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = repo.At(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestGet(t *testing.T) {
	repo, stored := seed(t, "Anna")
	got, err := repo.Get(stored[0].ID)
	require.NoError(t, err)
	assert.Equal(t, stored[0], got)

	_, err = repo.Get(uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestFilter(t *testing.T) {
	repo := NewRecordRepository()
	anna := repo.Add(record("Anna", model.DivisionFirst))
	repo.Add(record("Bob", model.DivisionFirst))
	dana := repo.Add(record("Dana", model.DivisionSecond))

	tests := []struct {
		name     string
		byName   string
		division string
		want     []model.StudentRecord
	}{
		{"case insensitive both", "an", "first", []model.StudentRecord{anna}},
		{"upper case criteria", "AN", "DIVISION", []model.StudentRecord{anna, dana}},
		{"division only", "", "second", []model.StudentRecord{dana}},
		{"no match", "zed", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slices.Collect(repo.Filter(tt.byName, tt.division)))
		})
	}
}

func TestFilterIsLazyAndRestartable(t *testing.T) {
	repo, _ := seed(t, "Anna")
	view := repo.Filter("", "")

	first := slices.Collect(view)
	second := slices.Collect(view)
	assert.Equal(t, first, second)

	repo.Add(record("Andy", model.DivisionFirst))
	assert.Len(t, slices.Collect(view), 2)
	assert.Equal(t, 2, repo.Len())
}

func TestFilterEarlyStop(t *testing.T) {
	repo, _ := seed(t, "Anna", "Bob", "Cara")
	n := 0
	for range repo.Filter("", "") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
