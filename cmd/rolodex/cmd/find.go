package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/search"
)

func newFindCmd() *cobra.Command {
	var byID string

	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Find contacts by exact name",
		Long: `Find contacts whose full name matches exactly (case-insensitive),
or look a contact up by id with --id. Lookups by id also return
deleted contacts.

Examples:
  rolodex find "Ada Lovelace"
  rolodex find --id 6f1c0a52-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			if byID != "" {
				c, err := a.store.Get(byID)
				if err != nil {
					return err
				}
				a.out.ContactDetail(c)
				return nil
			}

			if len(args) == 0 {
				return rdxerr.Validation(rdxerr.CodeInvalidInput, "provide a name or --id")
			}

			ids, ok := search.NewEngine(a.store).FindByName(args[0])
			if !ok {
				return rdxerr.NotFound(args[0])
			}

			contacts := make([]contact.Contact, 0, len(ids))
			for _, id := range ids {
				c, err := a.store.Get(id)
				if err != nil {
					return err
				}
				contacts = append(contacts, c)
			}
			a.out.ContactList(contacts)
			return nil
		},
	}

	cmd.Flags().StringVar(&byID, "id", "", "Look up a single contact by id")

	return cmd
}
