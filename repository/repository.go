// Package repository contains the MySQL data access layer. Each
// repository pairs an interface with a mysql-backed implementation so
// the services can be exercised against fakes in tests.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error number for a violated UNIQUE
// constraint. The schema enforces every uniqueness invariant the
// services report, so the loser of a concurrent insert race surfaces
// here rather than slipping past an application-level existence check.
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a UNIQUE constraint violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
