package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pagetalk/internal/markdown"
	"pagetalk/internal/thread"
)

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch and print the comment thread for a page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireCreds(); err != nil {
				return writeErr(cmd, err)
			}
			page := app.resolvePage()
			t := thread.New(page, app.client(), app.local(), markdown.Render)
			if err := t.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			msg, _ := t.Message()
			return writeOut(cmd, app, map[string]any{
				"data": t.Comments(),
				"meta": map[string]any{
					"page":    page,
					"count":   t.Len(),
					"message": msg,
				},
			})
		},
	}
	return cmd
}

func newPostCmd(app *App) *cobra.Command {
	var nickname string
	var email string
	var website string
	var body string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Submit a comment to a page's thread",
		Long: strings.TrimSpace(`
Submit a comment through the same engine the widget uses: the thread is
loaded first, the draft validated, and on success the cached identity is
updated for the next submission.

Field flags default to the cached identity; --body defaults to stdin.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireCreds(); err != nil {
				return writeErr(cmd, err)
			}
			page := app.resolvePage()
			local := app.local()

			rec := local.Identity()
			if nickname == "" {
				nickname = rec.Nickname
			}
			if email == "" {
				email = rec.Email
			}
			if website == "" {
				website = rec.Website
			}
			if body == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				body = string(b)
			}

			t := thread.New(page, app.client(), local, markdown.Render)
			if err := t.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			c, err := t.Submit(cmd.Context(), thread.Form{
				Nickname: nickname,
				Email:    email,
				Website:  website,
				Content:  body,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			msg, _ := t.Message()
			return writeOut(cmd, app, map[string]any{
				"data": c,
				"meta": map[string]any{
					"page":    page,
					"count":   t.Len(),
					"message": msg,
				},
			})
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Author nickname (default: cached identity)")
	cmd.Flags().StringVar(&email, "email", "", "Author email (default: cached identity)")
	cmd.Flags().StringVar(&website, "website", "", "Author website (default: cached identity)")
	cmd.Flags().StringVar(&body, "body", "", "Comment body, markdown (default: read stdin)")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <object-id>",
		Short: "Delete a stored comment by id (moderation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireCreds(); err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := app.client().Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"objectId": id, "deleted": true},
			})
		},
	}
	return cmd
}
