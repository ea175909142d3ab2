package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/typegen/internal/app"
	"go.trai.ch/typegen/internal/ui/style"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [types...]",
		Short: "Write the generated sources of the given types, or of every type",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			report, err := c.app.Generate(cmd.Context(), app.GenerateOptions{
				Names: args,
				Force: force,
			})
			if report != nil {
				success := style.Success.Renderer(renderer(cmd))
				for _, name := range report.Written {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), success.Render(style.Check)+" "+name)
				}
			}
			return err
		},
	}
	cmd.Flags().Bool("force", false, "Rewrite outputs even when they are up to date")
	return cmd
}
