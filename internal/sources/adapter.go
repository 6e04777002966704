// Package sources normalizes heterogeneous job boards into the
// canonical Job shape. Source-specific wire types stop at this boundary;
// the aggregator and scorer only ever see entities.Job.
package sources

import (
	"context"

	"github.com/questkit/jobscout/internal/entities"
)

// Adapter fetches raw listings from one external board and maps them
// into canonical jobs. Implementations own their rate limiting and must
// degrade to an empty slice, not an error, on malformed records.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, query, location string) ([]entities.Job, error)
}
