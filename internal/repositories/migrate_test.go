package repositories

import (
	"io/fs"
	"strings"
	"testing"

	"kudi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsComeInPairs(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
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

func TestBalanceAuditTriggerSkipsHookAuditedUpdates(t *testing.T) {
	body, err := migrationFiles.ReadFile(balanceAuditMigration)
	require.NoError(t, err)
	stmt := string(body)

	assert.Contains(t, stmt, "AFTER UPDATE OF balance ON profiles")
	assert.Contains(t, stmt, "FOR EACH ROW")
	assert.Contains(t, stmt, "current_setting('"+models.SettingHookAudit+"', true)")
	assert.Contains(t, stmt, "set_config('"+models.SettingSystemWrite+"', 'on', true)")
	assert.NotContains(t, stmt, "?", "gorm would treat ? as a bind placeholder")
}
