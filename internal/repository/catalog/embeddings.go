package catalog

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// LoadEmbeddings reads precomputed variable embeddings from a parquet file
// with a "code" column and an "embedding" list column of float values.
// Uses the generic row reader: Schema.Reconstruct fails on nullable list
// columns.
func LoadEmbeddings(path string) (map[string][]float32, error) {
	h, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	codeIdx, embIdx := -1, -1
	for i, col := range h.pf.Schema().Columns() {
		if len(col) == 0 {
			continue
		}
		switch col[0] {
		case "code", "variable_code":
			codeIdx = i
		case "embedding", "vector":
			embIdx = i
		}
	}
	if codeIdx < 0 || embIdx < 0 {
		return nil, fmt.Errorf("embedding parquet needs code and embedding columns")
	}

	out := make(map[string][]float32)
	for _, rg := range h.pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 1000)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				code := ""
				var vec []float32
				for _, v := range buf[i] {
					if v.IsNull() {
						continue
					}
					switch v.Column() {
					case codeIdx:
						code = v.String()
					case embIdx:
						vec = append(vec, float32(v.Double()))
					}
				}
				if code != "" && len(vec) > 0 {
					out[code] = vec
				}
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read embedding rows: %w", readErr)
			}
		}
	}
	return out, nil
}
