package database_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/sharedlist/internal/database"
	"github.com/mdouchement/sharedlist/internal/model"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configs(t *testing.T) map[string]database.Config {
	dir, err := os.MkdirTemp("", "sharedlist-db")
	require.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	return map[string]database.Config{
		"storm-msgpack": {Driver: database.DriverStorm, Path: filepath.Join(dir, "msgpack.db")},
		"storm-cbor":    {Driver: database.DriverStorm, Path: filepath.Join(dir, "cbor.db"), Codec: "cbor"},
		"storm-binc":    {Driver: database.DriverStorm, Path: filepath.Join(dir, "binc.db"), Codec: "binc"},
		"sqlite":        {Driver: database.DriverSQLite, Path: filepath.Join(dir, "sqlite.db")},
	}
}

func TestClient(t *testing.T) {
	for name, cfg := range configs(t) {
		cfg := cfg
		t.Run(name, func(t *testing.T) {
			require.NoError(t, database.Init(cfg))
			require.NoError(t, database.ReIndex(cfg))

			db, err := database.Open(cfg)
			require.NoError(t, err)
			defer db.Close()

			items, err := db.FindItems()
			assert.NoError(t, err)
			assert.Empty(t, items)

			milk := model.NewItem(libsl.Draft{Name: "Milk", Quantity: 2, Price: 1.5, AddedBy: "Ana"})
			assert.NoError(t, db.Save(milk))
			assert.NotEmpty(t, milk.ID)
			assert.NotNil(t, milk.CreatedAt)

			time.Sleep(5 * time.Millisecond)

			bread := model.NewItem(libsl.Draft{Name: "Bread", Quantity: 1})
			bread.Quantity = nil
			assert.NoError(t, db.Save(bread))

			items, err = db.FindItems()
			assert.NoError(t, err)
			if assert.Len(t, items, 2) {
				assert.Equal(t, bread.ID, items[0].ID, "newest first")
				assert.Equal(t, milk.ID, items[1].ID)
				assert.Nil(t, items[0].Quantity)
				assert.Nil(t, items[0].AddedBy)
			}

			milk.Purchased = libsl.Bool(true)
			assert.NoError(t, db.Save(milk))

			found, err := db.FindItem(milk.ID)
			assert.NoError(t, err)
			assert.Equal(t, "Milk", found.Name)
			assert.Equal(t, 2, *found.Quantity)
			assert.Equal(t, libsl.Price(1.5), *found.Price)
			assert.Equal(t, "Ana", *found.AddedBy)
			assert.True(t, *found.Purchased)

			assert.NoError(t, db.Delete(milk))
			_, err = db.FindItem(milk.ID)
			assert.True(t, db.IsNotFound(err))
		})
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(database.Config{Driver: "postgres"})
	assert.EqualError(t, err, "unsupported database driver: postgres")

	_, err = database.StormCodecByName("gob")
	assert.EqualError(t, err, "unsupported storm codec: gob")
}
