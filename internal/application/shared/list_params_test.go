package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListParams_ToFilter(t *testing.T) {
	f := ListParams{}.ToFilter()
	assert.Equal(t, DefaultListLimit, f.PageSize)
	assert.Zero(t, f.Offset())
	assert.Empty(t, f.OrderBy)
	assert.NotNil(t, f.Filters)

	f = ListParams{Q: "  eu ", Offset: 20, Limit: 10, Order: "-name"}.ToFilter()
	assert.Equal(t, "eu", f.Search)
	assert.Equal(t, 20, f.Offset())
	assert.Equal(t, 10, f.PageSize)
	assert.Equal(t, "name", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)

	f = ListParams{Order: "created_at", Limit: 5000}.ToFilter()
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, MaxListLimit, f.PageSize)
}

func TestNoOpTransactionScope_PassesItself(t *testing.T) {
	scope := &NoOpTransactionScope{}
	var got TransactionalRepositories
	err := scope.Execute(t.Context(), func(repos TransactionalRepositories) error {
		got = repos
		return nil
	})
	assert.NoError(t, err)
	assert.Same(t, scope, got)
}
