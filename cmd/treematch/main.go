// Command treematch compares two forest documents and prints the match tree.
// It exits 0 when the forests match completely, 1 when they differ and 2 on
// error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/agenthands/hiermatch/internal/config"
	"github.com/agenthands/hiermatch/internal/core"
	"github.com/agenthands/hiermatch/internal/core/document"
	"github.com/agenthands/hiermatch/internal/core/summary"
)

func main() {
	leftPath := flag.String("left", "", "left forest document (.json, .yaml)")
	rightPath := flag.String("right", "", "right forest document (.json, .yaml)")
	cfgPath := flag.String("config", "", "TOML configuration file")
	asJSON := flag.Bool("json", false, "print the comparison as JSON")
	verbose := flag.Bool("v", false, "print unchanged subtrees and per-type counts")
	flag.Parse()

	log.SetFlags(0)
	if *leftPath == "" || *rightPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Printf("Failed to load configuration: %v", err)
			os.Exit(2)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	differs, err := run(ctx, cfg, *leftPath, *rightPath, *asJSON, *verbose)
	if err != nil {
		log.Print(err)
		os.Exit(2)
	}
	if differs {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, leftPath, rightPath string, asJSON, verbose bool) (bool, error) {
	left, err := readDocument(leftPath)
	if err != nil {
		return false, err
	}
	right, err := readDocument(rightPath)
	if err != nil {
		return false, err
	}

	svc, err := core.NewService(nil, cfg)
	if err != nil {
		return false, err
	}
	c, err := svc.CompareDocuments(ctx, left, right)
	if err != nil {
		return false, err
	}

	sum := summary.Summarize(c)
	if asJSON {
		out := struct {
			Summary summary.Summary `json:"summary"`
			*document.ComparisonDocument
		}{sum, document.FromComparison(c)}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return false, err
		}
	} else {
		fmt.Print(renderer{styles: defaultStyles(), verbose: verbose}.render(c))
	}
	return sum.Changed(), nil
}

func readDocument(path string) (*document.ForestDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := document.Decode(data, document.FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
