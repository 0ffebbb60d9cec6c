package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without a live connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=dojo dbname=dojo"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func TestCreditXPUpdateIsStoreSideIncrement(t *testing.T) {
	tx := creditXPUpdate(dryRunDB(t), "u1", 50)
	require.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	// a single UPDATE with the addition in SQL, not a fetched value
	assert.Contains(t, sql, `UPDATE "users"`)
	assert.Contains(t, sql, "points_totaux + ")
	assert.Contains(t, tx.Statement.Vars, interface{}(int64(50)))
	assert.Contains(t, tx.Statement.Vars, interface{}("u1"))
}
