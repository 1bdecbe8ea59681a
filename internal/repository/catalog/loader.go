// Package catalog loads variable catalog files from CSV or Parquet sources.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/audiencelab/segmatch/internal/catalog"
)

// Load reads the catalog file at path into raw entries. format is "csv" or
// "parquet".
func Load(path, format string) ([]catalog.Entry, error) {
	switch format {
	case "csv":
		return loadCSV(path)
	case "parquet":
		return loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// csvColumns maps header names to field indices. -1 marks an absent column.
type csvColumns struct {
	code        int
	description int
	category    int
	theme       int
	product     int
	context     int
}

func resolveCSVColumns(header []string) (csvColumns, error) {
	cols := csvColumns{code: -1, description: -1, category: -1, theme: -1, product: -1, context: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "code", "variable_code", "variable":
			cols.code = i
		case "description", "variable_description", "label":
			cols.description = i
		case "category":
			cols.category = i
		case "theme":
			cols.theme = i
		case "product":
			cols.product = i
		case "context":
			cols.context = i
		}
	}
	if cols.code < 0 {
		return cols, fmt.Errorf("catalog header has no code column")
	}
	if cols.description < 0 {
		return cols, fmt.Errorf("catalog header has no description column")
	}
	return cols, nil
}

func loadCSV(path string) ([]catalog.Entry, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	cols, err := resolveCSVColumns(header)
	if err != nil {
		return nil, err
	}

	field := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var entries []catalog.Entry
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		code := field(rec, cols.code)
		if code == "" {
			continue
		}
		entries = append(entries, catalog.Entry{
			Code:        code,
			Description: field(rec, cols.description),
			Category:    field(rec, cols.category),
			Theme:       field(rec, cols.theme),
			Product:     field(rec, cols.product),
			Context:     field(rec, cols.context),
		})
	}
	return entries, nil
}
