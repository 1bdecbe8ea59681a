// Package records loads the per-record dataset used for segmentation and
// serves column projections of it.
package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/audiencelab/segmatch/internal/cluster"
)

// column is one parsed dataset column. Numeric when every non-empty cell
// parses as a float.
type column struct {
	name    string
	numeric bool
	values  []float64
	missing []bool
	raw     []string
}

// Store holds the full record table in memory. Read-only after Load.
type Store struct {
	n       int
	columns map[string]*column
}

// Load reads a CSV record file. The first row is the header; column types
// are inferred from the data.
func Load(path string) (*Store, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read records header: %w", err)
	}

	cells := make([][]string, len(header))
	n := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read records row %d: %w", n+1, err)
		}
		for i := range header {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			cells[i] = append(cells[i], v)
		}
		n++
	}

	columns := make(map[string]*column, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		columns[name] = buildColumn(name, cells[i])
	}

	return &Store{n: n, columns: columns}, nil
}

// buildColumn infers the column type. A column with at least one non-empty
// cell where all non-empty cells parse as numbers becomes numeric; empty
// cells become missing values.
func buildColumn(name string, raw []string) *column {
	c := &column{name: name, raw: raw}

	values := make([]float64, len(raw))
	missing := make([]bool, len(raw))
	numeric := false
	for i, v := range raw {
		if v == "" {
			missing[i] = true
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c
		}
		values[i] = f
		numeric = true
	}

	c.numeric = numeric
	c.values = values
	c.missing = missing
	return c
}

// N returns the record count.
func (s *Store) N() int { return s.n }

// Columns returns the available column names in no particular order.
func (s *Store) Columns() []string {
	names := make([]string, 0, len(s.columns))
	for name := range s.columns {
		names = append(names, name)
	}
	return names
}

// Fetch projects the dataset onto the requested columns. Unknown codes are
// simply absent from the returned frame; the caller decides whether that is
// an error.
func (s *Store) Fetch(_ context.Context, codes []string) (cluster.Frame, error) {
	frame := cluster.Frame{N: s.n}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true

		c, ok := s.columns[code]
		if !ok {
			continue
		}
		if c.numeric {
			frame.Numeric = append(frame.Numeric, cluster.NumericColumn{
				Name:    c.name,
				Values:  c.values,
				Missing: c.missing,
			})
		} else {
			frame.Categorical = append(frame.Categorical, cluster.CategoricalColumn{
				Name:   c.name,
				Values: c.raw,
			})
		}
	}
	return frame, nil
}
