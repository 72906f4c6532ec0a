package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsUniqueConstraintError(t *testing.T) {
	require.False(t, isUniqueConstraintError(nil))
	require.False(t, isUniqueConstraintError(errors.New("connection refused")))

	require.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	require.True(t, isUniqueConstraintError(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))

	require.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	require.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "42601"}))

	require.True(t, isUniqueConstraintError(&mysql.MySQLError{Number: 1062}))
	require.False(t, isUniqueConstraintError(&mysql.MySQLError{Number: 1045}))

	// SQLite reports violations by message only.
	require.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: accounts.name")))
}
