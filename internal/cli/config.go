package cli

import (
	"github.com/spf13/cobra"

	"pagetalk/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or update the stored server settings",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored server settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			// The key is a credential; don't echo it back in full.
			shown := *cfg
			if len(shown.AppKey) > 4 {
				shown.AppKey = shown.AppKey[:4] + "…"
			}
			return writeOut(cmd, app, map[string]any{"data": shown})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	var api string
	var appID string
	var appKey string
	var class string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update stored server settings (only flags given change)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("api") {
				cfg.API = api
			}
			if cmd.Flags().Changed("app-id") {
				cfg.AppID = appID
			}
			if cmd.Flags().Changed("app-key") {
				cfg.AppKey = appKey
			}
			if cmd.Flags().Changed("class") {
				cfg.Class = class
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"saved": true}})
		},
	}

	cmd.Flags().StringVar(&api, "api", "", "Object-store base URL")
	cmd.Flags().StringVar(&appID, "app-id", "", "Object-store app id")
	cmd.Flags().StringVar(&appKey, "app-key", "", "Object-store app key")
	cmd.Flags().StringVar(&class, "class", "", "Object class comments are stored under")
	return cmd
}
