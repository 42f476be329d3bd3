package main

import (
	"fmt"
	"hash"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/sharedlist/internal/changefeed"
	"github.com/mdouchement/sharedlist/internal/database"
	"github.com/mdouchement/sharedlist/internal/server"
	"github.com/mdouchement/sharedlist/internal/server/middlewares"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"gopkg.in/natefinch/lumberjack.v2"
)

const dbname = "sharedlist.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "sharedlist",
		Short:   "Shared shopping list server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	apikeyCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(apikeyCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

func load() (*koanf.Koanf, error) {
	konf := koanf.New(".")
	if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, "could not load configuration")
	}
	return konf, nil
}

func databaseConfig(konf *koanf.Koanf) database.Config {
	driver := konf.String("database.driver")
	path := konf.String("database.path")

	filename := dbname
	if driver == database.DriverSQLite {
		filename = strings.TrimSuffix(dbname, ".db") + ".sqlite"
	}
	if len(path) > 0 {
		filename = filepath.Join(path, filename)
	}

	return database.Config{
		Driver: driver,
		Path:   filename,
		Codec:  konf.String("database.codec"),
	}
}

func signingKey(konf *koanf.Koanf) ([]byte, error) {
	if konf.String("secret_key") == "" {
		return nil, errors.New("secret_key not found")
	}
	return kdf(32, konf.MustBytes("secret_key")), nil
}

func kdf(l int, k []byte) []byte {
	nhash := func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	}

	payload := make([]byte, l)

	kdf := hkdf.New(nhash, k, nil, []byte("sharedlist apikey"))
	_, err := io.ReadFull(kdf, payload)
	if err != nil {
		panic(err)
	}

	return payload
}

func setupLogger(konf *koanf.Koanf) error {
	if level := konf.String("log_level"); level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return errors.Wrap(err, "invalid log_level")
		}
		logrus.SetLevel(lvl)
	}

	if filename := konf.String("log_file"); filename != "" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     30, //days
		}))
	}
	return nil
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.Init(databaseConfig(konf))
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.ReIndex(databaseConfig(konf))
		},
	}

	//
	apikeyCmd = &coral.Command{
		Use:   "apikey",
		Short: "Print the API key shared by the clients",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			key, err := signingKey(konf)
			if err != nil {
				return err
			}

			apikey, err := middlewares.NewAPIKey(key)
			if err != nil {
				return err
			}

			fmt.Println(apikey)
			return nil
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			if err = setupLogger(konf); err != nil {
				return err
			}

			key, err := signingKey(konf)
			if err != nil {
				return err
			}

			db, err := database.Open(databaseConfig(konf))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			buffer := konf.Int("realtime.buffer")
			if buffer <= 0 {
				buffer = changefeed.DefaultBuffer
			}
			broker := changefeed.NewBroker(buffer)
			defer broker.Close()

			engine := server.EchoEngine(server.IOC{
				Version:    version,
				Database:   db,
				Broker:     broker,
				SigningKey: key,
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			message := "could not run server"
			logrus.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					logrus.Infof("Removing existing %s", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
