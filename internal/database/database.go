package database

import (
	"github.com/mdouchement/sharedlist/internal/model"
	"github.com/pkg/errors"
)

// Supported drivers.
const (
	DriverStorm  = "storm"
	DriverSQLite = "sqlite"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		ItemInteraction
	}

	// An ItemInteraction defines all the methods used to interact with a item record(s).
	ItemInteraction interface {
		// FindItem returns the item for the given id (UUID).
		FindItem(id string) (*model.Item, error)
		// FindItems returns all the items, newest first.
		FindItems() ([]*model.Item, error)
	}

	// A Config describes the database to open.
	Config struct {
		Driver string
		Path   string
		// Codec is the storm serialization format (msgpack, cbor or binc).
		Codec string
	}
)

// Init creates the database and its indexes.
func Init(cfg Config) error {
	switch cfg.Driver {
	case "", DriverStorm:
		return StormInit(cfg.Path, cfg.Codec)
	case DriverSQLite:
		db, err := SQLiteOpen(cfg.Path)
		if err != nil {
			return err
		}
		return db.Close()
	default:
		return errors.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// ReIndex rebuilds the indexes of the database.
func ReIndex(cfg Config) error {
	switch cfg.Driver {
	case "", DriverStorm:
		return StormReIndex(cfg.Path, cfg.Codec)
	case DriverSQLite:
		db, err := SQLiteOpen(cfg.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.(*sqlite).reindex()
	default:
		return errors.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Open returns a new database connection.
func Open(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "", DriverStorm:
		return StormOpen(cfg.Path, cfg.Codec)
	case DriverSQLite:
		return SQLiteOpen(cfg.Path)
	default:
		return nil, errors.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
