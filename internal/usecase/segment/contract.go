package segment

import (
	"context"

	"github.com/audiencelab/segmatch/internal/cluster"
)

// RecordSource supplies the per-record dataset projected onto the requested
// variable codes.
type RecordSource interface {
	Fetch(ctx context.Context, codes []string) (cluster.Frame, error)
}
