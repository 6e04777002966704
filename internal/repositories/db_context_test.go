package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDb(t *testing.T) *DbContext {
	t.Helper()

	dbCtx, err := NewDbContext(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}
