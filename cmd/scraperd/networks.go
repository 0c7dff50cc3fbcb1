package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(networksCmd)
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the known catalog networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := buildDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		networks, err := deps.Repos.NetworkRepository.GetAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing networks: %w", err)
		}

		for _, n := range networks {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", n.Slug, n.Name)
		}
		return nil
	},
}
