package client

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

// Configure prompts the Remote Data Store endpoint and API key.
func Configure() error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	endpoint, err := readline.Line(fmt.Sprintf("Endpoint [%s]: ", cfg.Endpoint))
	if err != nil {
		return errors.Wrap(err, "could not read endpoint from stdin")
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}

	apikey, err := readline.Password("API key: ")
	if err != nil {
		return errors.Wrap(err, "could not read API key from stdin")
	}
	if len(apikey) > 0 {
		cfg.APIKey = strings.TrimSpace(string(apikey))
	}

	if _, err = NewClient(cfg); err != nil {
		return err
	}

	fmt.Println("Storing configuration in current directory as " + configfile)
	return Save(cfg)
}

// Whoami prints the buyer name, or stores it when name is not empty.
func Whoami(name string) error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println(cfg.Buyer())
		return nil
	}

	cfg.BuyerName = name
	return Save(cfg)
}
