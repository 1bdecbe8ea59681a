// Package cluster partitions a record set into audience segments whose sizes
// are bounded relative to the total: K-means initialization followed by
// iterative size-constrained reassignment.
package cluster

// NumericColumn is one numeric feature. Missing marks rows whose value is
// absent; missing values are imputed with the column median.
type NumericColumn struct {
	Name    string
	Values  []float64
	Missing []bool
}

// CategoricalColumn is one categorical feature, one-hot encoded before
// clustering.
type CategoricalColumn struct {
	Name   string
	Values []string
}

// Frame is a table of N ordered records over named columns. Row identity is
// positional. The engine never mutates a frame.
type Frame struct {
	N           int
	Numeric     []NumericColumn
	Categorical []CategoricalColumn
}

// HasColumn reports whether the frame carries a column with the given name.
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.Numeric {
		if c.Name == name {
			return true
		}
	}
	for _, c := range f.Categorical {
		if c.Name == name {
			return true
		}
	}
	return false
}
