// Package cli defines the cobra command tree for visitor-pass.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/config"
	"github.com/evcraddock/visitor-pass/internal/db"
	"github.com/evcraddock/visitor-pass/internal/mongodb"
	"github.com/evcraddock/visitor-pass/internal/request"
	"github.com/evcraddock/visitor-pass/internal/user"
)

var (
	flagFormat string
	flagDB     string
	flagStore  string
	flagServer string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vp",
		Short:         "Request and approve visitor passes",
		Long:          "A visitor pass system. Requesters submit visitor requests, admins approve or reject them, and approved requests get a PDF pass with a QR code.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.visitor-pass/visitors.db)")
	root.PersistentFlags().StringVar(&flagStore, "store", "", "storage backend (sqlite|mongo)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "talk to a running server instead of the local store")

	root.AddCommand(
		newServeCmd(),
		newUserCmd(),
		newSubmitCmd(),
		newListCmd(),
		newShowCmd(),
		newResolveCmd(request.ActionApprove),
		newResolveCmd(request.ActionReject),
		newPassCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// settings resolves configuration: flags win over the environment (and .env),
// which wins over the CLI config file.
func settings() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	file, err := loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	applyFileConfig(&cfg, file)

	if flagStore != "" {
		cfg.Store = flagStore
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// backend is an open persistence gateway.
type backend struct {
	users    user.Store
	requests request.Store
	close    func(context.Context) error
}

// openBackend connects to the store selected by cfg.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.Store {
	case config.StoreMongo:
		m, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			closeErr := m.Close(ctx)
			if closeErr != nil {
				return nil, fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
			}
			return nil, err
		}
		return &backend{users: m.Users(), requests: m.Requests(), close: m.Close}, nil

	default:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &backend{
			users:    user.NewRepository(database),
			requests: request.NewRepository(database),
			close:    func(context.Context) error { return database.Close() },
		}, nil
	}
}

// openFromFlags resolves settings and opens the backend.
func openFromFlags(ctx context.Context) (*backend, config.Config, error) {
	cfg, err := settings()
	if err != nil {
		return nil, config.Config{}, err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return b, cfg, nil
}

// closeBackend closes the backend, logging any error to stderr.
func closeBackend(ctx context.Context, b *backend) {
	if err := b.close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing store: %v\n", err)
	}
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
