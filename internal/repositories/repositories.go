package repositories

import (
	"database/sql"
	"fmt"
)

// expectRow reports notFound when an UPDATE or DELETE touched no rows.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
