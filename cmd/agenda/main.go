package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/satchel-tui/satchel/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override satchel config path (optional)")
	baseURL := flag.String("url", "", "override tasks backend URL (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, BaseURL: *baseURL}
	if err := app.RunAgenda(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "agenda: %v\n", err)
		return 1
	}
	return 0
}
