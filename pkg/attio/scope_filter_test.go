package attio

import (
	"context"
	"testing"

	"github.com/attio/attio-mcp-server/pkg/scopes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateToolScopeFilter(t *testing.T) {
	t.Parallel()

	readToken := []string{string(scopes.RecordRead)}
	writeToken := []string{string(scopes.RecordReadWrite)}

	t.Run("read token allows read tools", func(t *testing.T) {
		t.Parallel()

		filter := CreateToolScopeFilter(readToken)
		st := SearchRecords()
		ok, err := filter(context.Background(), &st)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("read token denies write tools", func(t *testing.T) {
		t.Parallel()

		filter := CreateToolScopeFilter(readToken)
		st := CreateRecord()
		ok, err := filter(context.Background(), &st)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("write token implies read", func(t *testing.T) {
		t.Parallel()

		filter := CreateToolScopeFilter(writeToken)
		st := SearchRecords()
		ok, err := filter(context.Background(), &st)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("tools without scopes always pass", func(t *testing.T) {
		t.Parallel()

		filter := CreateToolScopeFilter(nil)
		st := GetMigrationStats()
		ok, err := filter(context.Background(), &st)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
