package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command.
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema for the configured driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()
			if len(e.applied) == 0 {
				fmt.Fprintf(out, "%s schema is up to date (%s)\n", color.New(color.FgBlue).Sprint("OK"), e.cfg.DB.Driver)
				return nil
			}
			for _, v := range e.applied {
				fmt.Fprintf(out, "%s %s\n", color.New(color.FgGreen).Sprint("APPLIED"), v)
			}
			return nil
		},
	}
}
