package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		Long:  `List every active contact, sorted by name. Deleted contacts are omitted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			contacts := a.store.All()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(contacts)
			}

			a.out.ContactList(contacts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output contacts as JSON")

	return cmd
}
