package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/missionctl/internal/cli"
	"github.com/alexanderramin/missionctl/internal/config"
	"github.com/alexanderramin/missionctl/internal/db"
	"github.com/alexanderramin/missionctl/internal/identity"
	"github.com/alexanderramin/missionctl/internal/service"
	"github.com/alexanderramin/missionctl/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	client := store.NewSQLiteClient(database, store.WithLogger(logger))
	defer client.Close()

	// Pick up writes made by other missionctl processes on the same file.
	if cfg.Watch && !cfg.InMemory() {
		unwatch, err := client.Watch(cfg.DBPath)
		if err != nil {
			logger.Warn("file watch unavailable, live updates limited to this process", "error", err)
		} else {
			defer unwatch()
		}
	}

	app := &cli.App{}

	// A failed sign-in is reported by the command: the TUI shows it on its
	// loading screen, everything else exits with it.
	user, err := identity.NewProvider(cfg.AuthToken, cfg.AuthSecret, cfg.IdentityPath()).SignIn(ctx)
	if err != nil {
		app.SignInErr = err
	} else {
		ref := store.CollectionRef{AppID: cfg.AppID, UserID: user.ID}

		var observers []service.UseCaseObserver
		if cfg.LogUseCases {
			observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
		}
		app.Missions = service.NewMissionService(client, ref, service.UploadConfig{
			Delay:          cfg.UploadDelay,
			DeliverableURL: cfg.DeliverableURL,
		}, observers...)
		app.User = user
		app.Collection = ref.Path()
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
