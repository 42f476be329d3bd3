package server

import "github.com/mdouchement/sharedlist/internal/server/middlewares"

// This file is only for test purpose and is only loaded by test framework.

// CreateAPIKey returns an API key valid for the given controller.
func CreateAPIKey(ioc IOC) string {
	apikey, err := middlewares.NewAPIKey(ioc.SigningKey)
	if err != nil {
		panic(err)
	}
	return apikey
}
