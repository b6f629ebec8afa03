package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// addOptions holds CLI flags for add.
type addOptions struct {
	phone string
	email string
	tag   string
	force bool
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a contact",
		Long: `Add a contact to the collection.

A contact with the same identity (case-insensitive name plus matching
phone number) is rejected unless --force is given.

Examples:
  rolodex add "Ada Lovelace" --phone "+2348012345678" --email ada@example.com
  rolodex add "Ada Lovelace" -p 08012345678 -t family --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.phone, "phone", "p", "", "Phone number")
	cmd.Flags().StringVarP(&opts.email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&opts.tag, "tag", "t", "", "Free-form tag")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Add even if an identical contact exists")

	return cmd
}

func runAdd(cmd *cobra.Command, name string, opts addOptions) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}

	if name == "" {
		return rdxerr.Validation(rdxerr.CodeInvalidInput, "name must not be empty")
	}

	c := contact.New(name, opts.phone, opts.email, opts.tag)

	if existing, ok := a.store.FindIdentity(c); ok && !opts.force {
		a.out.Error("duplicate of %s (%s); use --force to add anyway", existing.Name, existing.ID)
		return rdxerr.Validation(rdxerr.CodeInvalidInput, "contact already exists").
			WithDetail("id", existing.ID)
	}

	if err := a.store.Add(c); err != nil {
		return err
	}
	if err := a.persist(ctx); err != nil {
		return err
	}

	slog.Info("contact_added", slog.String("id", c.ID), slog.String("name", c.Name))
	a.out.Success("added %s", c.Name)
	a.out.ContactDetail(*c)
	return nil
}
