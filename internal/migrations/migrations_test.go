package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestSchemaCascadesFromBoards(t *testing.T) {
	body, err := fs.ReadFile(files, "sql/000001_init.up.sql")
	require.NoError(t, err)
	schema := string(body)

	for _, table := range []string{"columns", "items", "board_members", "board_invitations", "assignees", "activities"} {
		assert.Contains(t, schema, "CREATE TABLE "+table)
	}
	assert.Equal(t, 6, strings.Count(schema, "REFERENCES boards (id) ON DELETE CASCADE"))
	assert.Contains(t, schema, "item_id    UUID REFERENCES items (id) ON DELETE SET NULL")
}

func TestAssigneeKeepsFormerAccount(t *testing.T) {
	body, err := fs.ReadFile(files, "sql/000002_assignee_former_account.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "former_account_id UUID REFERENCES accounts (id) ON DELETE SET NULL")
}
