package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

func newEditCmd() *cobra.Command {
	var name, phone, email, tag string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a contact's fields",
		Long: `Edit one or more fields of an existing contact. Only the flags
given are changed; the contact's id and creation time never move.

Examples:
  rolodex edit 6f1c0a52-... --phone 08098765432
  rolodex edit 6f1c0a52-... --name "Ada King" --tag family`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}

			if name == "" && phone == "" && email == "" && tag == "" {
				return rdxerr.Validation(rdxerr.CodeInvalidInput, "nothing to change; pass at least one field flag")
			}

			err = a.store.Edit(args[0], func(c *contact.Contact) {
				if name != "" {
					c.Name = name
				}
				if phone != "" {
					c.Phone = phone
				}
				if email != "" {
					c.Email = email
				}
				if tag != "" {
					c.Tag = tag
				}
			})
			if err != nil {
				return err
			}
			if err := a.persist(ctx); err != nil {
				return err
			}

			slog.Info("contact_edited", slog.String("id", args[0]))
			updated, err := a.store.Get(args[0])
			if err != nil {
				return err
			}
			a.out.Success("updated %s", updated.Name)
			a.out.ContactDetail(updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&phone, "phone", "", "New phone number")
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().StringVar(&tag, "tag", "", "New tag")

	return cmd
}
