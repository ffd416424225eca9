package main

import (
	"github.com/spf13/cobra"

	"github.com/davidshq/clickup-utils-sub000/pkg/clickup"
	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var (
	listSpaceID  string
	listFolderID string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Work with task lists",
}

var listListCmd = &cobra.Command{
	Use:   "list",
	Short: "List task lists in a space or folder",
	Long: `List task lists in a space or folder.

With only --space, folderless lists of the space are shown. With
--folder, the folder's lists are shown instead.`,
	Example: `  clickup list list --space 123
  clickup list list --space 123 --folder 456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var lists []clickup.List
		if listFolderID != "" {
			lists, err = client.GetLists(cmd.Context(), listFolderID)
		} else {
			lists, err = client.GetFolderlessLists(cmd.Context(), listSpaceID)
		}
		if err != nil {
			return err
		}

		return printResult(lists, ui.RenderLists(lists))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listListCmd)

	listListCmd.Flags().StringVar(&listSpaceID, "space", "", "space ID (required unless --folder is given)")
	listListCmd.Flags().StringVar(&listFolderID, "folder", "", "folder ID")
	listListCmd.MarkFlagsOneRequired("space", "folder")
}
