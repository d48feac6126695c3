package loader

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIngredients(t *testing.T) {
	input := `[
		{"name": "абрикосовое варенье", "measurement_unit": "г"},
		{"name": " salt ", "measurement_unit": "g "}
	]`

	records, err := ReadIngredients(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []IngredientRecord{
		{Name: "абрикосовое варенье", MeasurementUnit: "г"},
		{Name: "salt", MeasurementUnit: "g"},
	}, records)
}

func TestReadIngredients_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "name,measurement_unit"},
		{name: "object instead of array", input: `{"name": "salt"}`},
		{name: "missing unit", input: `[{"name": "salt"}]`},
		{name: "blank name", input: `[{"name": "  ", "measurement_unit": "g"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadIngredients(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadIngredients_Empty(t *testing.T) {
	records, err := ReadIngredients(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

type fakeStore struct {
	count    int64
	countErr error
	loaded   []IngredientRecord
	cleared  bool
}

func (s *fakeStore) Count(context.Context) (int64, error) { return s.count, s.countErr }

func (s *fakeStore) Load(_ context.Context, records []IngredientRecord) error {
	s.loaded = append(s.loaded, records...)
	s.count += int64(len(records))
	return nil
}

func (s *fakeStore) Clear(context.Context) (int64, error) {
	deleted := s.count
	s.count, s.cleared = 0, true
	return deleted, nil
}

const catalog = `[{"name": "salt", "measurement_unit": "g"}, {"name": "milk", "measurement_unit": "ml"}]`

func catalogOpener(opened *int) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		*opened++
		return io.NopCloser(strings.NewReader(catalog)), nil
	}
}

func TestImport(t *testing.T) {
	tests := []struct {
		name       string
		existing   int64
		clearFirst bool
		want       Result
		wantOpened int
		wantLoaded int
	}{
		{name: "empty table is loaded", want: Result{Loaded: 2}, wantOpened: 1, wantLoaded: 2},
		{name: "populated table is skipped", existing: 5, want: Result{Existing: 5, Skipped: true}},
		{name: "clear reloads a populated table", existing: 5, clearFirst: true, want: Result{Deleted: 5, Loaded: 2}, wantOpened: 1, wantLoaded: 2},
		{name: "clear on an empty table", clearFirst: true, want: Result{Loaded: 2}, wantOpened: 1, wantLoaded: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{count: tt.existing}
			opened := 0

			result, err := Import(context.Background(), store, catalogOpener(&opened), tt.clearFirst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
			assert.Equal(t, tt.wantOpened, opened)
			assert.Len(t, store.loaded, tt.wantLoaded)
			assert.Equal(t, tt.clearFirst, store.cleared)
		})
	}
}

func TestImport_Errors(t *testing.T) {
	t.Run("count failure stops the import", func(t *testing.T) {
		store := &fakeStore{countErr: errors.New("connection refused")}
		opened := 0
		_, err := Import(context.Background(), store, catalogOpener(&opened), false)
		assert.ErrorContains(t, err, "connection refused")
		assert.Zero(t, opened)
	})

	t.Run("missing catalog", func(t *testing.T) {
		open := func() (io.ReadCloser, error) { return nil, errors.New("no such file") }
		_, err := Import(context.Background(), &fakeStore{}, open, false)
		assert.ErrorContains(t, err, "failed to open ingredient catalog")
	})

	t.Run("invalid catalog loads nothing", func(t *testing.T) {
		store := &fakeStore{}
		open := func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(`[{"name": "salt"}]`)), nil
		}
		_, err := Import(context.Background(), store, open, false)
		assert.Error(t, err)
		assert.Empty(t, store.loaded)
	})
}
