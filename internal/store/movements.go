package store

import (
	"context"
	"database/sql"
	"fmt"

	"stocktab/internal/model"
)

// recordMovement inserts a movement row inside an existing transaction.
func recordMovement(ctx context.Context, tx *sql.Tx, itemID, kind string, amount int, userID *int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO movements (item_id, kind, delta, moved_by) VALUES (?, ?, ?, ?)`,
		itemID, kind, amount, userID,
	)
	if err != nil {
		return fmt.Errorf("recording movement: %w", err)
	}
	return nil
}

// GetItemHistory returns an item's stock movements, newest first.
func GetItemHistory(ctx context.Context, db *sql.DB, itemID string) ([]model.Movement, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT m.id, m.item_id, m.kind, m.delta, m.moved_at, m.moved_by,
		        i.name AS item_name, COALESCE(u.username, '') AS username
		 FROM movements m
		 JOIN items i ON i.id = m.item_id
		 LEFT JOIN users u ON u.id = m.moved_by
		 WHERE m.item_id = ?
		 ORDER BY m.moved_at DESC, m.id DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting item history: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

// ListMovements returns all stock movements, newest first.
func ListMovements(ctx context.Context, db *sql.DB) ([]model.Movement, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT m.id, m.item_id, m.kind, m.delta, m.moved_at, m.moved_by,
		        i.name AS item_name, COALESCE(u.username, '') AS username
		 FROM movements m
		 JOIN items i ON i.id = m.item_id
		 LEFT JOIN users u ON u.id = m.moved_by
		 ORDER BY m.moved_at DESC, m.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

func scanMovements(rows *sql.Rows) ([]model.Movement, error) {
	var movements []model.Movement
	for rows.Next() {
		var m model.Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Kind, &m.Delta, &m.MovedAt, &m.MovedBy,
			&m.ItemName, &m.Username); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
