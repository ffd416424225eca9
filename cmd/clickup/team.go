package main

import (
	"github.com/spf13/cobra"

	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Work with ClickUp workspaces",
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the workspaces the token can access",
	Example: `  clickup team list
  clickup team list -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		teams, err := client.GetAuthorizedTeams(cmd.Context())
		if err != nil {
			return err
		}

		return printResult(teams, ui.RenderTeams(teams))
	},
}

func init() {
	rootCmd.AddCommand(teamCmd)
	teamCmd.AddCommand(teamListCmd)
}
