package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/domain"
)

func sampleReport() *domain.ShoppingReport {
	return domain.BuildShoppingReport("bob", time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC), []domain.IngredientTotal{
		{Name: "sugar", Unit: "kg", Amount: 2},
		{Name: "salt", Unit: "g", Amount: 10},
		{Name: "salt", Unit: "g", Amount: 5},
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"", "Shopping list", "", ""},
		{"", "2024-03-09", "bob", ""},
		{"#", "Name", "Unit", "Amount"},
		{"1", "Salt", "(g)", "15"},
		{"2", "Sugar", "(kg)", "2"},
	}, rows)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReport()))

	assert.Equal(t, "Shopping list\n2024-03-09 bob\n\n1. Salt (g) — 15\n2. Sugar (kg) — 2\n", buf.String())
}

func TestWriteEmptyReport(t *testing.T) {
	empty := domain.BuildShoppingReport("bob", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), nil)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, empty))
	assert.Equal(t, "Shopping list\n2024-03-09 bob\n\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)
	assert.Equal(t, "shopping.csv", format.Filename())

	format, err = ParseFormat("txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", format.ContentType())
	assert.Equal(t, "shopping.txt", format.Filename())

	_, err = ParseFormat("pdf")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
