package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"warehub/pkg/models"
)

func TestMigrateSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// The exclusion constraint is Postgres DDL and must be skipped on
	// other dialects without failing the migration.
	require.NoError(t, Migrate(db))

	u := models.User{UserUid: "11111111-1111-1111-1111-111111111111", Email: "a@b.c"}
	require.NoError(t, db.Create(&u).Error)
}

func TestNoOverlapConstraintDefinition(t *testing.T) {
	assert.Contains(t, noOverlapConstraint, "bookings_no_overlap")
	assert.Contains(t, noOverlapConstraint, "EXCLUDE USING gist")
	assert.Contains(t, noOverlapConstraint, "warehouse_uid WITH =")
	// Bounds are inclusive on both sides: sharing a single calendar day
	// is a violation.
	assert.Contains(t, noOverlapConstraint, "'[]'")
	// Cancelled and completed bookings must not block new ones.
	assert.True(t, strings.Contains(noOverlapConstraint, "'pending'") &&
		strings.Contains(noOverlapConstraint, "'confirmed'"))
	assert.NotContains(t, noOverlapConstraint, "cancelled")
}
