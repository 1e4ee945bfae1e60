package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

type catalogRow struct {
	Code         string
	Name         string
	Category     string
	Unit         string
	MinimumStock decimal.Decimal
	Location     string
}

// parseCatalog lee el CSV ya decodificado a UTF-8. Las filas inválidas se devuelven en skipped
// con su número de línea; un código repetido conserva la primera aparición.
func parseCatalog(r io.Reader) (rows []catalogRow, skipped []string, err error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	seen := make(map[string]bool)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++
		if line == 1 {
			continue
		}
		row, reason := parseRow(rec)
		if reason != "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: %s", line, reason))
			continue
		}
		if seen[row.Code] {
			skipped = append(skipped, fmt.Sprintf("línea %d: código %s repetido", line, row.Code))
			continue
		}
		seen[row.Code] = true
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return rows, skipped, nil
}

func parseRow(rec []string) (catalogRow, string) {
	if len(rec) < 5 {
		return catalogRow{}, "faltan columnas"
	}
	row := catalogRow{
		Code:     strings.TrimSpace(rec[0]),
		Name:     strings.TrimSpace(rec[1]),
		Category: strings.ToLower(strings.TrimSpace(rec[2])),
		Unit:     strings.ToLower(strings.TrimSpace(rec[3])),
	}
	if len(rec) > 5 {
		row.Location = strings.TrimSpace(rec[5])
	}
	if n := utf8.RuneCountInString(row.Code); n == 0 || n > 50 {
		return row, "código vacío o mayor a 50 caracteres"
	}
	if n := utf8.RuneCountInString(row.Name); n == 0 || n > 200 {
		return row, "nombre vacío o mayor a 200 caracteres"
	}
	if row.Category == "" {
		row.Category = entity.CategoryOther
	}
	if !entity.ValidCategory(row.Category) {
		return row, "categoría desconocida " + row.Category
	}
	if row.Unit == "" {
		row.Unit = entity.UnitPiece
	}
	if !entity.ValidUnit(row.Unit) {
		return row, "unidad desconocida " + row.Unit
	}
	// El sistema anterior exporta decimales con coma.
	minStock := strings.ReplaceAll(strings.TrimSpace(rec[4]), ",", ".")
	if minStock == "" {
		minStock = "0"
	}
	d, err := decimal.NewFromString(minStock)
	if err != nil || d.IsNegative() {
		return row, "stock mínimo inválido"
	}
	row.MinimumStock = d
	return row, ""
}

func writeSQL(w io.Writer, rows []catalogRow) error {
	if _, err := fmt.Fprintln(w, "-- Catálogo de productos importado. Generado por cmd/seed_catalogo."); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w,
			"INSERT INTO products (id, code, name, category, unit, current_stock, minimum_stock, location) VALUES ('%s', %s, %s, '%s', '%s', 0, %s, %s) ON CONFLICT (code) DO NOTHING;\n",
			uuid.NewString(), quote(r.Code), quote(r.Name), r.Category, r.Unit, r.MinimumStock.String(), quote(r.Location),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
