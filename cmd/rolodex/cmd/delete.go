package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Long: `Delete a contact by id.

Deletion is soft: the contact becomes a tombstone that no longer shows
up in listings or searches, but still wins or loses synchronization
against other devices by timestamp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}

			if err := a.store.Delete(args[0]); err != nil {
				return err
			}
			if err := a.persist(ctx); err != nil {
				return err
			}

			slog.Info("contact_deleted", slog.String("id", args[0]))
			a.out.Success("deleted %s", args[0])
			return nil
		},
	}

	return cmd
}
