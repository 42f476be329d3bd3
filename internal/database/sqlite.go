package database

import (
	"database/sql"
	"time"

	"github.com/mdouchement/sharedlist/internal/model"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // database/sql driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	quantity   INTEGER,
	price      REAL,
	added_by   TEXT,
	purchased  INTEGER,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS items_created_at ON items (created_at);
`

const sqliteColumns = `id, name, quantity, price, added_by, purchased, created_at, updated_at`

type sqlite struct {
	db *sql.DB
}

// SQLiteOpen returns a new SQLite database connection.
// The schema is created if needed.
func SQLiteOpen(database string) (Client, error) {
	db, err := sql.Open("sqlite", database)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "could not set %s", p)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create schema")
	}

	return &sqlite{db: db}, nil
}

func (c *sqlite) reindex() error {
	_, err := c.db.Exec("REINDEX items")
	return errors.Wrap(err, "could not reindex items")
}

// Save inserts or updates the entry in database with the given model.
func (c *sqlite) Save(m model.Model) error {
	item, ok := m.(*model.Item)
	if !ok {
		return errors.Errorf("unsupported model %T", m)
	}

	item.Touch(time.Now().UTC())

	_, err := c.db.Exec(`INSERT INTO items (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			quantity = excluded.quantity,
			price = excluded.price,
			added_by = excluded.added_by,
			purchased = excluded.purchased,
			updated_at = excluded.updated_at`,
		item.ID, item.Name,
		nullInt(item.Quantity), nullPrice(item.Price), nullString(item.AddedBy), nullBool(item.Purchased),
		item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
	)
	return errors.Wrap(err, "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *sqlite) Delete(m model.Model) error {
	res, err := c.db.Exec(`DELETE FROM items WHERE id = ?`, m.GetID())
	if err != nil {
		return errors.Wrap(err, "could not delete the model")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrap(sql.ErrNoRows, "could not delete the model")
	}
	return nil
}

// Close the database.
func (c *sqlite) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *sqlite) IsNotFound(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

// FindItem returns the item for the given id (UUID).
func (c *sqlite) FindItem(id string) (*model.Item, error) {
	row := c.db.QueryRow(`SELECT `+sqliteColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	return item, errors.Wrap(err, "could not find item")
}

// FindItems returns all the items, newest first.
func (c *sqlite) FindItems() ([]*model.Item, error) {
	rows, err := c.db.Query(`SELECT ` + sqliteColumns + ` FROM items ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "could not find items")
	}
	defer rows.Close()

	items := make([]*model.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan item")
		}
		items = append(items, item)
	}
	return items, errors.Wrap(rows.Err(), "could not find items")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	var (
		item       model.Item
		quantity   sql.NullInt64
		price      sql.NullFloat64
		addedBy    sql.NullString
		purchased  sql.NullBool
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := s.Scan(&item.ID, &item.Name, &quantity, &price, &addedBy, &purchased, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if quantity.Valid {
		item.Quantity = libsl.Int(int(quantity.Int64))
	}
	if price.Valid {
		item.Price = libsl.NewPrice(price.Float64)
	}
	if addedBy.Valid {
		item.AddedBy = libsl.String(addedBy.String)
	}
	if purchased.Valid {
		item.Purchased = libsl.Bool(purchased.Bool)
	}
	createdAt, updatedAt = createdAt.UTC(), updatedAt.UTC()
	item.CreatedAt = &createdAt
	item.UpdatedAt = &updatedAt

	return &item, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullPrice(v *libsl.Price) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
