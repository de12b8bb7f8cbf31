package lms

import (
	"database/sql"
	"strconv"
)

func itoa(n int) string { return strconv.Itoa(n) }

// requireRowAffected converts a zero-row UPDATE/DELETE into ErrNotFound so
// handlers can answer 404 instead of silently succeeding.
func requireRowAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFoundf(entity)
	}
	return nil
}
