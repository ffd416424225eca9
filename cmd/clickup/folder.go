package main

import (
	"github.com/spf13/cobra"

	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var folderSpaceID string

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Work with folders",
}

var folderListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List folders in a space",
	Example: `  clickup folder list --space 123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		folders, err := client.GetFolders(cmd.Context(), folderSpaceID)
		if err != nil {
			return err
		}

		return printResult(folders, ui.RenderFolders(folders))
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderListCmd)

	folderListCmd.Flags().StringVar(&folderSpaceID, "space", "", "space ID (required)")
	folderListCmd.MarkFlagRequired("space")
}
