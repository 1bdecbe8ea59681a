// Package catalog builds and holds immutable snapshots of the variable
// catalog. A snapshot is constructed once from raw entries, derives every
// computed field deterministically, and is never mutated afterwards; reloads
// swap in a whole new snapshot.
package catalog

import (
	"fmt"

	"github.com/audiencelab/segmatch/internal/domain"
)

// Entry is one raw catalog row as supplied by the loader.
type Entry struct {
	Code        string
	Description string
	Category    string
	Theme       string
	Product     string
	Context     string
}

// Snapshot is an immutable catalog of variables with unique codes.
type Snapshot struct {
	vars   []domain.Variable
	byCode map[string]int
}

// NewSnapshot validates entries, computes derived fields, and freezes the
// result. Codes must be unique within one snapshot.
func NewSnapshot(entries []Entry) (*Snapshot, error) {
	vars := make([]domain.Variable, 0, len(entries))
	byCode := make(map[string]int, len(entries))

	for _, e := range entries {
		if e.Code == "" {
			return nil, fmt.Errorf("catalog entry with empty code (description %q)", e.Description)
		}
		if _, exists := byCode[e.Code]; exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateCode, e.Code)
		}
		byCode[e.Code] = len(vars)
		vars = append(vars, derive(e))
	}

	return &Snapshot{vars: vars, byCode: byCode}, nil
}

// Variables returns the full variable list in load order. Callers must treat
// the slice as read-only.
func (s *Snapshot) Variables() []domain.Variable { return s.vars }

// Get returns the variable with the given code.
func (s *Snapshot) Get(code string) (domain.Variable, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return domain.Variable{}, false
	}
	return s.vars[i], true
}

// Len returns the number of variables in the snapshot.
func (s *Snapshot) Len() int { return len(s.vars) }
