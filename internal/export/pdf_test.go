package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/model"
)

func TestLines(t *testing.T) {
	items := []model.ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Total: 500},
		{Name: "EGGS", MeasurementUnit: "pcs", Total: 3},
		{Name: "яблоки", MeasurementUnit: "кг", Total: 2},
	}

	assert.Equal(t, []string{
		"Flour - 500 g",
		"Eggs - 3 pcs",
		"Яблоки - 2 кг",
	}, Lines(items))
	assert.Empty(t, Lines(nil))
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer("")
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.Equal(t, "shopping_list.pdf", r.Filename())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, []model.ShoppingItem{{Name: "flour", MeasurementUnit: "g", Total: 500}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	var empty bytes.Buffer
	require.NoError(t, r.Render(&empty, nil))
	assert.True(t, bytes.HasPrefix(empty.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_ManyItemsPaginate(t *testing.T) {
	items := make([]model.ShoppingItem, 120)
	for i := range items {
		items[i] = model.ShoppingItem{Name: "item", MeasurementUnit: "g", Total: i + 1}
	}

	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer("").Render(&buf, items))
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}

func TestPDFRenderer_MissingFont(t *testing.T) {
	var buf bytes.Buffer
	err := NewPDFRenderer("/nonexistent/font.ttf").Render(&buf, nil)
	assert.Error(t, err)
}
