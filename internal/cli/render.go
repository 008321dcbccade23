package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pagetalk/internal/markdown"
)

func newRenderCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render markdown from stdin (or --file) as sanitized HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src []byte
			var err error
			if file != "" {
				src, err = os.ReadFile(file)
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), markdown.Render(string(src)))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read markdown from this file instead of stdin")
	return cmd
}
