package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (API key masked)",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			conf, err := load(rf)
			if err != nil {
				return err
			}
			out, err := conf.Redacted()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.OutOrStdout(), out)
			return err
		},
	}
}
