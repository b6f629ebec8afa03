// Package cmd provides the CLI commands for rolodex.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uche09/rolodex/internal/config"
	"github.com/uche09/rolodex/internal/logging"
	"github.com/uche09/rolodex/internal/mem"
	"github.com/uche09/rolodex/internal/storage"
	"github.com/uche09/rolodex/internal/ui"
	"github.com/uche09/rolodex/pkg/version"
)

// Persistent flags shared by every subcommand.
var (
	cfgPath        string
	debugMode      bool
	noColor        bool
	loggingCleanup func()
)

// Execute runs the root command with signal-aware cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCmd creates the root command for the rolodex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rolodex",
		Short: "In-memory, indexed, synchronizing contact book",
		Long: `Rolodex keeps a contact collection in memory, indexed for exact,
fuzzy, and domain search, and synchronizes snapshots between devices
with last-write-wins semantics.

Contacts persist through a configurable backend (json, txt, csv,
http, sqlite). Run 'rolodex' with no arguments for a status summary.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runStatus(cmd)
		},
	}

	cmd.SetVersionTemplate("rolodex version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default .rolodex.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newFindCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSearchDomainCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging wires slog before any subcommand runs. Config load
// failures are deferred to the subcommand so `config init` can run
// against a broken file.
func setupLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.Config{Level: "info"}
	if cfg, err := config.Load(cfgPath); err == nil {
		logCfg.Level = cfg.Log.Level
		logCfg.FilePath = cfg.Log.File
	}
	if debugMode {
		logCfg.Level = "debug"
	}

	_, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	return nil
}

// app bundles everything a subcommand needs: effective config, the
// opened backend, and the in-memory store hydrated from it.
type app struct {
	cfg     *config.Config
	backend storage.Storage
	store   *mem.Store
	out     *ui.Renderer
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return nil, err
	}

	snap, err := backend.Load(ctx)
	if err != nil {
		return nil, err
	}

	store, err := mem.NewFromSnapshot(ctx, snap)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		backend: backend,
		store:   store,
		out:     ui.NewRenderer(cmd.OutOrStdout(), noColor),
	}, nil
}

// persist writes the full store snapshot back through the backend.
func (a *app) persist(ctx context.Context) error {
	return a.backend.Save(ctx, a.store.Snapshot())
}

func runStatus(cmd *cobra.Command) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, version.String())
	fmt.Fprintf(w, "Backend:   %s\n", a.cfg.Storage.Backend)
	switch a.cfg.Storage.Backend {
	case storage.BackendHTTP:
		fmt.Fprintf(w, "Remote:    %s\n", a.cfg.Storage.URL)
	default:
		fmt.Fprintf(w, "Data file: %s\n", a.cfg.Storage.Path)
	}
	fmt.Fprintf(w, "Contacts:  %d active, %d total\n", a.store.Len(), a.store.Total())
	return nil
}
