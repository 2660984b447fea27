// Command billing runs the billing workflows from a terminal against the
// same record store as the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	_ "github.com/joho/godotenv/autoload"

	"github.com/sjperalta/billing-api/internal/config"
	"github.com/sjperalta/billing-api/internal/repository"
	"github.com/sjperalta/billing-api/internal/services"
	"github.com/sjperalta/billing-api/internal/storage"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	a := &app{open: openServices, out: os.Stdout}
	for _, c := range a.commands() {
		commander.Register(c, "billing")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// openServices wires the configured store and storage the way the API does.
// Logs stay on slog's default stderr logger so command output is clean.
func openServices(ctx context.Context) (*services.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	files, err := storage.NewLocalStorage(cfg.StoragePath, int64(cfg.MaxUploadMB)<<20)
	if err != nil {
		return nil, err
	}
	repos, err := repository.NewRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return services.NewServices(repos, files), nil
}
