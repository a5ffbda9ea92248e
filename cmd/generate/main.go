package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/tokenstream/internal/config"
	"github.com/rxtech-lab/tokenstream/internal/watchlist"
	"gopkg.in/yaml.v3"
)

const (
	watchlistSchemaName = "watchlist.schema.json"
	sampleWatchlistName = "watchlist.json"
	sampleConfigName    = "tokenstream.yaml"
)

const sampleWatchlist = `[
  // USDC on Ethereum
  {"chain": "ethereum", "address": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"},
  // Wrapped SOL
  {"chain": "solana", "address": "So11111111111111111111111111111111111111112"}
]
`

func main() {
	if err := generate("./config"); err != nil {
		log.Fatal(err)
	}
}

// generate writes the watchlist schema and, when missing, sample files into dir.
// Existing samples are never overwritten.
func generate(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	schemaJSON, err := watchlist.Schema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaPath := filepath.Join(dir, watchlistSchemaName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	watchlistPath := filepath.Join(dir, sampleWatchlistName)
	if _, err := os.Stat(watchlistPath); os.IsNotExist(err) {
		if err := os.WriteFile(watchlistPath, []byte(sampleWatchlist), 0644); err != nil {
			return fmt.Errorf("failed to write sample watchlist: %w", err)
		}

		log.Printf("Sample watchlist successfully generated at %s", watchlistPath)
	}

	configPath := filepath.Join(dir, sampleConfigName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
		}

		if err := os.WriteFile(configPath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config to file: %w", err)
		}

		log.Printf("Sample config successfully generated at %s", configPath)
	}

	return nil
}
