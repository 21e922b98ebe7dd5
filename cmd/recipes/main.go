// Command recipes lists or appends saved recipes using the server's
// configured store.
//
//	recipes list
//	recipes add < recipe.md
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/logger"
	"github.com/socialchef/chefvoice/internal/store"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [list|add]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadStore()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	slog.SetDefault(logger.NewWithWriter(cfg.Env, os.Stderr))

	ctx := context.Background()
	recipes, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open recipe store: %v", err)
	}
	defer recipes.Close()

	switch flag.Arg(0) {
	case "list":
		err = list(ctx, recipes, os.Stdout)
	case "add":
		err = add(ctx, recipes, os.Stdin)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		recipes.Close()
		log.Fatal(err)
	}
}

func list(ctx context.Context, recipes store.RecipeStore, w io.Writer) error {
	saved, err := recipes.ReadAll(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Fprintln(w, "No recipes saved yet.")
		return nil
	}
	for i, r := range saved {
		fmt.Fprintf(w, "#### Recipe %d\n\n%s\n\n---\n", i+1, strings.TrimRight(r, "\n"))
	}
	return nil
}

func add(ctx context.Context, recipes store.RecipeStore, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("nothing to add: stdin was empty")
	}
	if err := recipes.Append(ctx, text); err != nil {
		return err
	}
	slog.Info("Recipe added", "chars", len(text))
	return nil
}
