// Package docfill renders the printable order form. The template is a
// spreadsheet carrying one defined name per form field; filling resolves each
// field name to its cell and paints the value.
package docfill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/procar/internal/domain"
)

type XLSXFiller struct{}

func New() *XLSXFiller { return &XLSXFiller{} }

// Fill paints the fields onto a copy of the template and writes it to
// outputPath. Field names missing from the template are skipped; the template
// decides how many item rows it shows.
func (f *XLSXFiller) Fill(ctx context.Context, templatePath string, fields []domain.FormField, outputPath string) (string, error) {
	wb, err := excelize.OpenFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("abrir plantilla %q: %w", templatePath, err)
	}
	defer wb.Close()

	cells := map[string][2]string{}
	for _, dn := range wb.GetDefinedName() {
		if sheet, cell, ok := parseRef(dn.RefersTo); ok {
			cells[dn.Name] = [2]string{sheet, cell}
		}
	}

	for _, fd := range fields {
		ref, ok := cells[fd.Name]
		if !ok {
			continue
		}
		if err := wb.SetCellValue(ref[0], ref[1], fd.Value); err != nil {
			return "", fmt.Errorf("campo %q: %w", fd.Name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", err
	}
	if err := wb.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("guardar %q: %w", outputPath, err)
	}
	return outputPath, nil
}

// parseRef resolves a defined-name reference like "Pedido!$B$4" (sheet names
// with spaces come quoted) to its sheet and cell.
func parseRef(refersTo string) (sheet, cell string, ok bool) {
	sheet, cell, found := strings.Cut(refersTo, "!")
	if !found {
		return "", "", false
	}
	sheet = strings.Trim(sheet, "'")
	cell = strings.ReplaceAll(cell, "$", "")
	if sheet == "" || cell == "" || strings.Contains(cell, ":") {
		return "", "", false
	}
	return sheet, cell, true
}
