package client

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	configfile = ".sharedlist"
	envPrefix  = "SHAREDLIST_"
)

// A Config holds client's configuration.
type Config struct {
	Endpoint  string `json:"endpoint"`
	APIKey    string `json:"apikey"`
	BuyerName string `json:"buyer_name"`
}

// Buyer returns the name used to sign added items.
func (cfg Config) Buyer() string {
	if name := strings.TrimSpace(cfg.BuyerName); name != "" {
		return name
	}
	return libsl.DefaultBuyer
}

// Load gets the configuration from the current folder according to `configfile` const.
// Values can be overridden by SHAREDLIST_* environment variables.
func Load() (Config, error) {
	return LoadFrom(configfile)
}

// LoadFrom gets the configuration from the given file.
// A missing file is not an error.
func LoadFrom(filename string) (Config, error) {
	var cfg Config
	konf := koanf.New(".")

	if _, err := os.Stat(filename); err == nil {
		if err := konf.Load(file.Provider(filename), kjson.Parser()); err != nil {
			return cfg, errors.Wrapf(err, "could not read %s", filename)
		}
	} else if !os.IsNotExist(err) {
		return cfg, errors.Wrapf(err, "could not read %s", filename)
	}

	err := konf.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read environment")
	}

	if err = konf.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return cfg, errors.Wrap(err, "could not parse config")
	}

	if cfg.Endpoint == "" || cfg.APIKey == "" {
		logrus.WithField("file", filename).Warn("Endpoint or API key is missing, run `slc config`")
	}

	return cfg, nil
}

// Save stores the configuration in the current folder according to `configfile` const.
func Save(cfg Config) error {
	return SaveTo(configfile, cfg)
}

// SaveTo stores the configuration in the given file.
func SaveTo(filename string, cfg Config) error {
	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize config")
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", filename)
	}
	defer f.Close()

	if _, err = f.Write(payload); err != nil {
		return errors.Wrap(err, "could not store config")
	}

	return errors.Wrap(f.Sync(), "could not store config")
}

// NewClient returns a client for the configured Remote Data Store.
func NewClient(cfg Config) (libsl.Client, error) {
	client, err := libsl.NewDefaultClient(cfg.Endpoint, cfg.APIKey)
	return client, errors.Wrap(err, "could not reach sharedlist endpoint")
}
