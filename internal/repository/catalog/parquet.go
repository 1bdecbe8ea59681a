package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/audiencelab/segmatch/internal/catalog"
)

// parquetColumns holds leaf-level column indices resolved by name.
type parquetColumns struct {
	code        int
	description int
	category    int
	theme       int
	product     int
	context     int
}

func resolveParquetColumns(pf *parquet.File) (parquetColumns, error) {
	cols := parquetColumns{code: -1, description: -1, category: -1, theme: -1, product: -1, context: -1}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "code", "variable_code":
			cols.code = i
		case "description", "variable_description":
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
		return cols, fmt.Errorf("code column not found in parquet schema")
	}
	if cols.description < 0 {
		return cols, fmt.Errorf("description column not found in parquet schema")
	}
	return cols, nil
}

func loadParquet(path string) ([]catalog.Entry, error) {
	h, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	cols, err := resolveParquetColumns(h.pf)
	if err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for _, rg := range h.pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 1000)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				if e, ok := rowToEntry(buf[i], cols); ok {
					entries = append(entries, e)
				}
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read catalog rows: %w", readErr)
			}
		}
	}
	return entries, nil
}

// rowToEntry extracts an Entry from a generic parquet row by column index.
func rowToEntry(row parquet.Row, cols parquetColumns) (catalog.Entry, bool) {
	var e catalog.Entry
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.code:
			e.Code = v.String()
		case cols.description:
			e.Description = v.String()
		case cols.category:
			e.Category = v.String()
		case cols.theme:
			e.Theme = v.String()
		case cols.product:
			e.Product = v.String()
		case cols.context:
			e.Context = v.String()
		}
	}
	return e, e.Code != ""
}

// parquetHandle wraps parquet.File + underlying os.File for proper cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
