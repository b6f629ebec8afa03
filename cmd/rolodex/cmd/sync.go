package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/merge"
	"github.com/uche09/rolodex/internal/storage"
)

// syncOptions holds CLI flags for sync.
type syncOptions struct {
	fromBackend string
	fromPath    string
	fromURL     string
	watch       bool
}

func newSyncCmd() *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize with another device's snapshot",
		Long: `Merge a snapshot exported by another device into the local
collection using last-write-wins semantics, then persist the result.

The merge is atomic: if any record carries the same id with a
different creation time, the whole merge is rejected and nothing
changes locally.

With --watch, sync keeps running and re-merges whenever the foreign
file changes. Watching only works with file-based sources.

Examples:
  rolodex sync --from-path /mnt/usb/contacts.json
  rolodex sync --from-backend csv --from-path ~/export.csv
  rolodex sync --from-backend http --from-url https://peer.local/contacts
  rolodex sync --from-path /shared/contacts.json --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.fromBackend, "from-backend", storage.BackendJSON, "Foreign snapshot backend: json, txt, csv, http, sqlite")
	cmd.Flags().StringVar(&opts.fromPath, "from-path", "", "Foreign snapshot file or database")
	cmd.Flags().StringVar(&opts.fromURL, "from-url", "", "Foreign snapshot URL (http backend)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Keep running and re-sync when the foreign file changes")

	return cmd
}

func runSync(cmd *cobra.Command, opts syncOptions) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}

	if opts.fromBackend == storage.BackendHTTP {
		if opts.fromURL == "" {
			return rdxerr.Validation(rdxerr.CodeInvalidInput, "--from-url is required for the http backend")
		}
	} else if opts.fromPath == "" {
		return rdxerr.Validation(rdxerr.CodeInvalidInput, "--from-path is required")
	}

	foreign, err := storage.Open(storage.Options{
		Backend: opts.fromBackend,
		Path:    opts.fromPath,
		URL:     opts.fromURL,
		Timeout: time.Duration(a.cfg.Storage.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	syncOnce := func() error {
		snap, err := foreign.Load(ctx)
		if err != nil {
			return err
		}

		before := a.store.Total()
		if err := merge.NewEngine(a.store).Synchronize(snap); err != nil {
			return err
		}
		if err := a.persist(ctx); err != nil {
			return err
		}

		slog.Info("sync_done",
			slog.Int("foreign", len(snap)),
			slog.Int("inserted", a.store.Total()-before),
			slog.Int("active", a.store.Len()))
		a.out.Success("synchronized %d foreign contacts; %d active locally", len(snap), a.store.Len())
		return nil
	}

	if err := syncOnce(); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	if opts.fromBackend == storage.BackendHTTP {
		return rdxerr.Validation(rdxerr.CodeInvalidInput, "--watch requires a file-based foreign backend")
	}
	return watchAndSync(ctx, opts.fromPath, syncOnce, a)
}

// watchAndSync re-runs sync whenever the foreign file is written.
// The parent directory is watched, not the file: editors and atomic
// writers replace the file by rename, which drops a direct watch.
func watchAndSync(ctx context.Context, path string, syncOnce func() error, a *app) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return rdxerr.New(rdxerr.CodeInternal, "starting file watcher", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return rdxerr.New(rdxerr.CodeInvalidInput, "resolving watch path", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return rdxerr.New(rdxerr.CodeStorageRead, "watching foreign snapshot directory", err)
	}

	slog.Info("sync_watching", slog.String("path", abs))

	// Coalesce bursts of events into one re-sync.
	var pending *time.Timer
	fire := make(chan struct{}, 1)
	schedule := func() {
		if pending != nil {
			pending.Stop()
		}
		pending = time.AfterFunc(200*time.Millisecond, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch_error", slog.String("error", err.Error()))
		case <-fire:
			if err := syncOnce(); err != nil {
				// Conflicts and transient read errors should not kill
				// the watch loop.
				slog.Warn("sync_failed", slog.String("error", err.Error()))
				a.out.Error("sync failed: %v", err)
			}
		}
	}
}
