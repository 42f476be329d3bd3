package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/mdouchement/sharedlist/internal/model"
	"github.com/mdouchement/sharedlist/pkg/stormbinc"
	"github.com/mdouchement/sharedlist/pkg/stormcbor"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the default format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormCodecByName returns the storm option for the given codec name.
func StormCodecByName(name string) (func(*storm.Options) error, error) {
	switch name {
	case "", "msgpack":
		return StormCodec, nil
	case "cbor":
		return storm.Codec(stormcbor.Codec), nil
	case "binc":
		return storm.Codec(stormbinc.Codec), nil
	default:
		return nil, errors.Errorf("unsupported storm codec: %s", name)
	}
}

func stormOpen(database, codec string) (*storm.DB, error) {
	option, err := StormCodecByName(codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(database, option)
	return db, errors.Wrap(err, "could not get database connection")
}

// StormInit initializes Storm database.
func StormInit(database, codec string) error {
	db, err := stormOpen(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Init(&model.Item{})
	return errors.Wrap(err, "could not init item index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database, codec string) error {
	db, err := stormOpen(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.ReIndex(&model.Item{})
	return errors.Wrap(err, "could not ReIndex items")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database, codec string) (Client, error) {
	db, err := stormOpen(database, codec)
	if err != nil {
		return nil, err
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	m.Touch(time.Now().UTC())

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is nil or a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindItem returns the item for the given id (UUID).
func (c *strm) FindItem(id string) (*model.Item, error) {
	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

// FindItems returns all the items, newest first.
func (c *strm) FindItems() ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.Select().OrderBy("CreatedAt").Reverse().Find(&items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}
	return items, nil
}
