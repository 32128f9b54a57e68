package categories

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kitchenbook/kitchenbook/internal/model"
)

const (
	numFields = 4
	colName   = 0
	colKind   = 1
	colRate   = 2
	colDesc   = 3
)

// ReadCategories reads categories.csv.
func ReadCategories(r io.Reader) ([]model.Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var cats []model.Category
	for i, rec := range records[1:] {
		cat, err := UnmarshalCategory(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// WriteCategories writes categories.csv.
func WriteCategories(w io.Writer, cats []model.Category) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"name", "kind", "default_vat_rate", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, cat := range cats {
		if err := cw.Write(MarshalCategory(cat)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCategory converts a Category to a CSV row.
func MarshalCategory(cat model.Category) []string {
	row := make([]string, numFields)
	row[colName] = cat.Name
	row[colKind] = string(cat.Kind)
	row[colRate] = strconv.Itoa(cat.DefaultRate)
	row[colDesc] = cat.Description
	return row
}

// UnmarshalCategory converts a CSV row to a Category.
func UnmarshalCategory(record []string) (model.Category, error) {
	if len(record) != numFields {
		return model.Category{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	rate, err := strconv.Atoi(record[colRate])
	if err != nil {
		return model.Category{}, fmt.Errorf("parsing default_vat_rate %q: %w", record[colRate], err)
	}

	kind := model.Kind(record[colKind])
	if !kind.Valid() {
		return model.Category{}, fmt.Errorf("unknown kind %q for category %q", record[colKind], record[colName])
	}

	return model.Category{
		Name:        record[colName],
		Kind:        kind,
		DefaultRate: rate,
		Description: record[colDesc],
	}, nil
}
