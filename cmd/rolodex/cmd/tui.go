package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/uche09/rolodex/internal/ui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal interface",
		Long: `Run the interactive terminal interface for browsing, adding,
searching, and deleting contacts. Changes are persisted on exit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}

			dirty, err := ui.RunTUI(a.store)
			if err != nil {
				return err
			}
			if !dirty {
				return nil
			}

			if err := a.persist(ctx); err != nil {
				return err
			}
			slog.Info("tui_saved", slog.Int("contacts", a.store.Len()))
			return nil
		},
	}
}
