// Command noteqa answers questions about an Obsidian vault and Apple Notes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/noteqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/cli"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	cli.SetConfigStore(openConfigStore)

	if err := cli.Execute(ctx, version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func openConfigStore(path string) (cli.ConfigStore, error) {
	loader, err := file.NewConfigLoader(path, "")
	if err != nil {
		return nil, err
	}
	return loader, nil
}
