package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/saturnines/gqlfetch/pkg/config"
	"github.com/saturnines/gqlfetch/pkg/core"
)

const continentQuery = `
query Continent($code: ID!) {
  continent(code: $code) {
    name
    countries {
      name
      emoji
      capital
    }
  }
}`

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not loaded:", err)
	}

	// Load the YAML config
	loader := config.NewLoader(
		&config.EnvExpander{},
		&config.ConfigDefaults{},
		&config.RequiredFieldValidator{},
		&config.AuthValidator{},
	)

	cfg, err := loader.Load("demo/countries/countries.yaml")
	if err != nil {
		log.Fatal(err)
	}

	// Create a fetcher for the continent query
	fetcher, err := core.NewFetcher(cfg, continentQuery,
		core.WithVariable("code", "SA"),
	)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := fetcher.Trigger(context.Background(), nil)
	if err != nil {
		log.Fatal(err)
	}

	var payload struct {
		Continent struct {
			Name      string `json:"name"`
			Countries []struct {
				Name    string `json:"name"`
				Emoji   string `json:"emoji"`
				Capital string `json:"capital"`
			} `json:"countries"`
		} `json:"continent"`
	}
	if err := resp.DecodeData(&payload); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s has %d countries\n", payload.Continent.Name, len(payload.Continent.Countries))
	for _, country := range payload.Continent.Countries[:3] {
		fmt.Printf("%s %s (capital: %s)\n", country.Emoji, country.Name, country.Capital)
	}

	// Same fetcher, different variables for this call only
	resp, err = fetcher.Trigger(context.Background(), map[string]interface{}{"code": "EU"})
	if err != nil {
		log.Fatal(err)
	}

	if name, ok := resp.Field("continent.name"); ok {
		fmt.Printf("Overrides took us to %v\n", name)
	}
}
