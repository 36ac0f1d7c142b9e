package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
	"unicode"

	"stocktab/internal/model"
)

// ItemDraft holds the user-supplied fields for a new item.
type ItemDraft struct {
	Name         string
	Category     string
	Quantity     int
	Unit         string
	Supplier     string
	ReorderLevel *int
	Date         string
}

// dateLayout is the expected format of the draft date field.
const dateLayout = "2006-01-02"

// AddItem validates a draft and inserts it as a new item. The item ID is the
// uppercased first letter of the category followed by a 4-digit suffix from a
// monotonic sequence. On any validation failure nothing is inserted and the
// returned *ValidationError lists every offending field.
func AddItem(ctx context.Context, db *sql.DB, draft ItemDraft) (*model.Item, error) {
	var invalid []string
	if draft.Name == "" {
		invalid = append(invalid, "name")
	}
	if draft.Category == "" {
		invalid = append(invalid, "category")
	}
	if draft.Quantity < 0 {
		invalid = append(invalid, "quantity")
	}
	if draft.Unit == "" {
		invalid = append(invalid, "unit")
	}
	if draft.Supplier == "" {
		invalid = append(invalid, "supplier")
	}
	date, err := time.Parse(dateLayout, draft.Date)
	if err != nil {
		invalid = append(invalid, "date")
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid}
	}

	reorderLevel := model.ReorderCap
	if draft.ReorderLevel != nil {
		reorderLevel = model.ClampReorderLevel(*draft.ReorderLevel)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, seq, err := nextItemID(ctx, tx, draft.Category)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, name, category, quantity, unit, supplier, reorder_level, last_updated, seq)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, draft.Name, draft.Category, draft.Quantity, draft.Unit, draft.Supplier, reorderLevel, date, seq,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// nextItemID derives a unique item ID from the category prefix and the
// monotonic item sequence, advancing the sequence past any suffix that is
// still taken by a live ID.
func nextItemID(ctx context.Context, tx *sql.Tx, category string) (string, int64, error) {
	prefix := string(unicode.ToUpper([]rune(category)[0]))

	// The suffix wraps at 10000, so in the worst case every slot for this
	// prefix is occupied.
	for range 10000 {
		seq, err := nextSequence(ctx, tx)
		if err != nil {
			return "", 0, err
		}
		id := fmt.Sprintf("%s%04d", prefix, seq%10000)

		var count int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ?`, id,
		).Scan(&count)
		if err != nil {
			return "", 0, fmt.Errorf("checking item id: %w", err)
		}
		if count == 0 {
			return id, seq, nil
		}
	}
	return "", 0, fmt.Errorf("no free item id for category prefix %q", prefix)
}

// nextSequence increments and returns the monotonic item sequence.
func nextSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('item_seq', '0')`,
	)
	if err != nil {
		return 0, fmt.Errorf("initializing item sequence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE settings SET value = CAST(value AS INTEGER) + 1 WHERE key = 'item_seq'`,
	)
	if err != nil {
		return 0, fmt.Errorf("advancing item sequence: %w", err)
	}

	var value string
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'item_seq'`,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("reading item sequence: %w", err)
	}

	seq, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing item sequence: %w", err)
	}
	return seq, nil
}

// GetItem returns an item by ID, archived or not.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT id, name, category, quantity, unit, supplier, reorder_level, image_mime,
		        last_updated, created_at, archived_at
		 FROM items WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns the active snapshot in insertion order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return listItems(ctx, db, `archived_at IS NULL`)
}

// ListArchived returns archived items in insertion order.
func ListArchived(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return listItems(ctx, db, `archived_at IS NOT NULL`)
}

func listItems(ctx context.Context, db *sql.DB, where string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, category, quantity, unit, supplier, reorder_level, image_mime,
		        last_updated, created_at, archived_at
		 FROM items WHERE `+where+` ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var supplier, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Unit,
			&supplier, &item.ReorderLevel, &imageMime, &item.LastUpdated, &item.CreatedAt, &item.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Supplier = supplier.String
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var supplier, imageMime sql.NullString
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Unit,
		&supplier, &item.ReorderLevel, &imageMime, &item.LastUpdated, &item.CreatedAt, &item.ArchivedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item.Supplier = supplier.String
	item.ImageMime = imageMime.String
	return item, nil
}

// StockIn increases an item's quantity by amount and records the movement.
func StockIn(ctx context.Context, db *sql.DB, id string, amount int, userID *int64) (*model.Item, error) {
	return applyStock(ctx, db, id, amount, model.MovementIn, userID)
}

// StockOut decreases an item's quantity by amount and records the movement.
// The deduction is all-or-nothing: if amount exceeds the on-hand quantity the
// item is left untouched and ErrInsufficientStock is returned.
func StockOut(ctx context.Context, db *sql.DB, id string, amount int, userID *int64) (*model.Item, error) {
	return applyStock(ctx, db, id, amount, model.MovementOut, userID)
}

func applyStock(ctx context.Context, db *sql.DB, id string, amount int, kind string, userID *int64) (*model.Item, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM items WHERE id = ? AND archived_at IS NULL`, id,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking current quantity: %w", err)
	}

	delta := amount
	if kind == model.MovementOut {
		if amount > current {
			return nil, ErrInsufficientStock
		}
		delta = -amount
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET quantity = quantity + ?, last_updated = CURRENT_TIMESTAMP WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating quantity: %w", err)
	}

	if err := recordMovement(ctx, tx, id, kind, amount, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock change: %w", err)
	}

	return GetItem(ctx, db, id)
}

// Archive removes an item from the active set and returns the removed
// record. The row is kept for history rather than deleted outright.
func Archive(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET archived_at = CURRENT_TIMESTAMP WHERE id = ? AND archived_at IS NULL`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("archiving item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking archive result: %w", err)
	}
	if affected == 0 {
		return nil, ErrItemNotFound
	}

	return GetItem(ctx, db, id)
}

// SetReorderLevel sets an item's reorder level, clamped into
// [0, model.ReorderCap]. The last-updated date is left alone since the
// quantity did not change.
func SetReorderLevel(ctx context.Context, db *sql.DB, id string, level int) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET reorder_level = ? WHERE id = ? AND archived_at IS NULL`,
		model.ClampReorderLevel(level), id,
	)
	if err != nil {
		return nil, fmt.Errorf("setting reorder level: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking reorder level result: %w", err)
	}
	if affected == 0 {
		return nil, ErrItemNotFound
	}

	return GetItem(ctx, db, id)
}

// EnforceReorderCap re-clamps every item's reorder level into range. It is
// idempotent and safe to run after bulk loads or a cap change.
func EnforceReorderCap(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET reorder_level = ? WHERE reorder_level > ?`,
		model.ReorderCap, model.ReorderCap,
	)
	if err != nil {
		return fmt.Errorf("enforcing reorder cap: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`UPDATE items SET reorder_level = 0 WHERE reorder_level < 0`,
	)
	if err != nil {
		return fmt.Errorf("enforcing reorder floor: %w", err)
	}
	return nil
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE id = ? AND archived_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking image result: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
