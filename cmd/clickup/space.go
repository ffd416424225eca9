package main

import (
	"github.com/spf13/cobra"

	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var spaceTeamID string

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Work with spaces",
}

var spaceListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List spaces in a workspace",
	Example: `  clickup space list --team 9001`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		spaces, err := client.GetSpaces(cmd.Context(), spaceTeamID)
		if err != nil {
			return err
		}

		return printResult(spaces, ui.RenderSpaces(spaces))
	},
}

func init() {
	rootCmd.AddCommand(spaceCmd)
	spaceCmd.AddCommand(spaceListCmd)

	spaceListCmd.Flags().StringVar(&spaceTeamID, "team", "", "workspace ID (required)")
	spaceListCmd.MarkFlagRequired("team")
}
