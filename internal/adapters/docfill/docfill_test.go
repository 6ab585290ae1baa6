package docfill

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/procar/internal/domain"
)

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	names := map[string]string{
		"order_number":  "Sheet1!$B$2",
		"customer_name": "Sheet1!$B$3",
		"order_total":   "Sheet1!$D$10",
	}
	for name, ref := range names {
		require.NoError(t, wb.SetDefinedName(&excelize.DefinedName{Name: name, RefersTo: ref, Scope: "Workbook"}))
	}

	path := filepath.Join(dir, "plantilla.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}

func TestFillPaintsNamedCells(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	output := filepath.Join(dir, "salida", "pedido.xlsx")

	fields := []domain.FormField{
		{Name: "order_number", Value: "12"},
		{Name: "customer_name", Value: "Maria Souza"},
		{Name: "order_total", Value: "R$ 1.234,56"},
		{Name: "campo_inexistente", Value: "ignorado"},
	}

	got, err := New().Fill(context.Background(), template, fields, output)
	require.NoError(t, err)
	assert.Equal(t, output, got)

	wb, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer wb.Close()

	v, err := wb.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "12", v)
	v, err = wb.GetCellValue("Sheet1", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", v)
	v, err = wb.GetCellValue("Sheet1", "D10")
	require.NoError(t, err)
	assert.Equal(t, "R$ 1.234,56", v)
}

func TestFillMissingTemplate(t *testing.T) {
	_, err := New().Fill(context.Background(), filepath.Join(t.TempDir(), "no.xlsx"), nil, "out.xlsx")
	assert.Error(t, err)
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in    string
		sheet string
		cell  string
		ok    bool
	}{
		{"Pedido!$B$4", "Pedido", "B4", true},
		{"'Hoja Uno'!$A$1", "Hoja Uno", "A1", true},
		{"Sheet1!B2", "Sheet1", "B2", true},
		{"Sheet1!$A$1:$B$2", "", "", false},
		{"sin_hoja", "", "", false},
		{"!$A$1", "", "", false},
	}
	for _, tt := range tests {
		sheet, cell, ok := parseRef(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.sheet, sheet, tt.in)
		assert.Equal(t, tt.cell, cell, tt.in)
	}
}
