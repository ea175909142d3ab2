package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/typegen/internal/app"
	"go.trai.ch/typegen/internal/ui/style"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [package]",
		Short: "List the types the resource files define",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, _ := cmd.Flags().GetBool("files")
			computed, _ := cmd.Flags().GetBool("computed")

			opts := app.ListOptions{Files: files}
			if len(args) == 1 {
				opts.Package = args[0]
			}

			types, err := c.app.List(cmd.Context(), opts)
			r := renderer(cmd)
			name := style.TypeName.Renderer(r)
			muted := style.Muted.Renderer(r)

			out := cmd.OutOrStdout()
			for _, t := range types {
				var line strings.Builder
				if computed {
					icon := style.Circle
					if t.Computed {
						icon = style.Dot
					}
					line.WriteString(icon + " ")
				}
				line.WriteString(name.Render(t.FQN))
				line.WriteString("  " + muted.Render(t.Strategy))
				if len(t.Files) > 0 {
					line.WriteString("  " + muted.Render(strings.Join(t.Files, ", ")))
				}
				_, _ = fmt.Fprintln(out, line.String())
			}
			return err
		},
	}
	cmd.Flags().BoolP("files", "f", false, "Show the resource files behind each type")
	cmd.Flags().BoolP("computed", "c", false, "Mark types whose model is held in memory")
	return cmd
}
