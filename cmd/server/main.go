package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath()); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// configPath reads CONFIG_PATH, falling back to ./config when it exists.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if info, err := os.Stat("config"); err == nil && info.IsDir() {
		return "config"
	}
	return ""
}

func run(ctx context.Context, path string) (err error) {
	a, err := app.New(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return a.Run(ctx)
}
