package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mpelle/stockwell/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	pageSize := flag.Int("page-size", 0, "products per page (optional)")
	flag.Parse()

	// A local .env is a convenience for STOCKWELL_* variables; missing is
	// fine.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath}
	if *pageSize > 0 {
		opts.PageSize = *pageSize
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "stockwell: %v\n", err)
		return 1
	}
	return 0
}
