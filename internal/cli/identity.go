package cli

import (
	"github.com/spf13/cobra"

	"pagetalk/internal/model"
)

func newIdentityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Inspect or seed the cached author identity",
	}
	cmd.AddCommand(newIdentityShowCmd(app))
	cmd.AddCommand(newIdentitySetCmd(app))
	cmd.AddCommand(newIdentityClearCmd(app))
	return cmd
}

func newIdentityShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cached identity record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": app.local().Identity()})
		},
	}
}

func newIdentitySetCmd(app *App) *cobra.Command {
	var rec model.Identity

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Overwrite the cached identity record",
		Long: "Overwrite the cached identity record wholesale. Fields left\n" +
			"unset become empty; the record is never merged field-by-field.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.local().SaveIdentity(rec); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": rec})
		},
	}

	cmd.Flags().StringVar(&rec.Nickname, "nickname", "", "Author nickname")
	cmd.Flags().StringVar(&rec.Email, "email", "", "Author email")
	cmd.Flags().StringVar(&rec.Website, "website", "", "Author website")
	cmd.Flags().StringVar(&rec.Avatar, "avatar", "", "Avatar reference carried through to submissions")
	return cmd
}

func newIdentityClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset the cached identity to empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.local().SaveIdentity(model.Identity{}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": model.Identity{}})
		},
	}
}
