package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kratos/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kratos CLI version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
		return err
	},
}
