package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pagetalk/internal/format"
	"pagetalk/internal/leancloud"
	"pagetalk/internal/logging"
	"pagetalk/internal/store"
	"pagetalk/internal/tui"
)

type App struct {
	Page       string
	API        string
	AppID      string
	AppKey     string
	Class      string
	PrettyJSON bool
	DebugLog   string

	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "pagetalk",
		Short:         "Markdown comment threads for static pages (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Open the interactive comment widget for a page
  pagetalk --page /posts/hello/

  # Scriptable commands
  pagetalk list --page /posts/hello/ --pretty
  pagetalk post --page /posts/hello/ --nickname Bob --body "Nice post!"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive widget.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runWidget(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.fillFromConfig()
		app.logger = logging.New(app.DebugLog)
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.Page, "page", envOr("PAGETALK_PAGE", ""), "Page path the thread is attached to (e.g. /posts/hello/)")
	cmd.PersistentFlags().StringVar(&app.API, "api", envOr("PAGETALK_API", ""), "Object-store base URL (default: the public LeanCloud endpoint)")
	cmd.PersistentFlags().StringVar(&app.AppID, "app-id", envOr("PAGETALK_APP_ID", ""), "Object-store app id (X-LC-Id)")
	cmd.PersistentFlags().StringVar(&app.AppKey, "app-key", envOr("PAGETALK_APP_KEY", ""), "Object-store app key (X-LC-Key)")
	cmd.PersistentFlags().StringVar(&app.Class, "class", envOr("PAGETALK_CLASS", ""), "Object class comments are stored under")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", envOr("PAGETALK_DEBUG_LOG", ""), "Append debug logs to this file (never to the terminal)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newPostCmd(app))
	cmd.AddCommand(newIdentityCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// fillFromConfig backfills empty settings from config.json. Precedence stays
// flags > environment > config file > built-in defaults.
func (app *App) fillFromConfig() {
	cfg, err := store.LoadConfig()
	if err != nil {
		return
	}
	if app.API == "" {
		app.API = cfg.API
	}
	if app.AppID == "" {
		app.AppID = cfg.AppID
	}
	if app.AppKey == "" {
		app.AppKey = cfg.AppKey
	}
	if app.Class == "" {
		app.Class = cfg.Class
	}
}

func (app *App) client() *leancloud.Client {
	return &leancloud.Client{
		API:    app.API,
		AppID:  app.AppID,
		AppKey: app.AppKey,
		Class:  app.Class,
		Logger: app.logger,
	}
}

func (app *App) local() store.Local { return store.Local{} }

// resolvePage picks the thread's page path: explicit flag/env first, then the
// page last viewed on this machine, then the site root.
func (app *App) resolvePage() string {
	if p := strings.TrimSpace(app.Page); p != "" {
		return p
	}
	if p := app.local().LastPage(); p != "" {
		return p
	}
	return "/"
}

func (app *App) requireCreds() error {
	if strings.TrimSpace(app.AppID) == "" || strings.TrimSpace(app.AppKey) == "" {
		return errors.New("missing app credentials; pass --app-id/--app-key, set PAGETALK_APP_ID/PAGETALK_APP_KEY, or run `pagetalk config set`")
	}
	return nil
}

func runWidget(app *App) error {
	if err := app.requireCreds(); err != nil {
		return err
	}
	page := app.resolvePage()
	local := app.local()
	// Remember where we were so a bare `pagetalk` reopens the same thread.
	_ = local.SaveLastPage(page)
	return tui.Run(page, app.client(), local)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
