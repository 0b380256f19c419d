package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
)

// ErrNotFound and ErrConstraintViolation mirror the teacher's server/dao
// error sentinels (server/dao/dao.go).
var (
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
)

// wrapDBError mirrors server/dao/sqlite's wrapDBError: a uniqueness
// violation (sqlite code 19) becomes ErrConstraintViolation, a missing row
// becomes ErrNotFound, any other sqlite error is replaced by an error
// holding only its sqlite error-code name, and non-sqlite errors are
// passed through.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
