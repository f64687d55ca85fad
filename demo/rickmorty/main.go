package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saturnines/gqlfetch/pkg/config"
	"github.com/saturnines/gqlfetch/pkg/core"
)

const charactersQuery = `
query Characters($page: Int) {
  characters(page: $page) {
    info { count }
    results {
      name
      species
    }
  }
}`

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// No YAML here; wire the config directly
	provider, err := core.NewProvider(&config.Config{
		Name:     "rickmorty",
		Endpoint: "https://rickandmortyapi.com/graphql",
	}, core.WithProviderLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	fetcher := provider.Query(charactersQuery,
		core.WithVariable("page", 1),
		core.WithLoadOnStart(true),
	)

	// Start fires the first trigger in the background; poll the state the
	// way a render loop would
	fetcher.Start(context.Background())
	defer fetcher.Stop()

	var result core.Result
	for {
		result = fetcher.Result()
		if result.Err != nil {
			log.Fatal(result.Err)
		}
		if result.HasData() {
			break
		}
		fmt.Println("loading...")
		time.Sleep(200 * time.Millisecond)
	}

	count, _ := result.Field("characters.info.count")
	fmt.Printf("%v characters known\n", count)

	var payload struct {
		Characters struct {
			Results []struct {
				Name    string `json:"name"`
				Species string `json:"species"`
			} `json:"results"`
		} `json:"characters"`
	}
	if err := result.DecodeData(&payload); err != nil {
		log.Fatal(err)
	}

	for _, character := range payload.Characters.Results[:5] {
		fmt.Printf("%s (%s)\n", character.Name, character.Species)
	}
}
