// Package cli folder operation commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// newFoldersCmd creates the 'folders' command group.
func newFoldersCmd() *cobra.Command {
	foldersCmd := &cobra.Command{
		Use:   "folders",
		Short: "Folder operations (create, list, rename, move, delete)",
		Long:  `Commands for managing folders on the CloudBox server.`,
	}

	foldersCmd.AddCommand(newFoldersCreateCmd())
	foldersCmd.AddCommand(newFoldersListCmd())
	foldersCmd.AddCommand(newFoldersRenameCmd())
	foldersCmd.AddCommand(newFoldersMoveCmd())
	foldersCmd.AddCommand(newFoldersDeleteCmd())

	return foldersCmd
}

// newFoldersCreateCmd creates the 'folders create' command.
func newFoldersCreateCmd() *cobra.Command {
	var name string
	var parentID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new folder",
		Long: `Create a new folder.

Example:
  # Create folder in the root
  cloudbox folders create --name "Projects"

  # Create subfolder
  cloudbox folders create --name "2026" --parent <folder-id>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			folder, err := a.folders.Create(GetContext(), name, parentID)
			if err != nil {
				return fmt.Errorf("failed to create folder: %w", err)
			}

			GetLogger().Info().Str("folder_id", folder.ID).Msg("folder created")
			fmt.Printf("✓ Folder created\n")
			fmt.Printf("  Name: %s\n", folder.Name)
			fmt.Printf("  ID: %s\n", folder.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Folder name (required)")
	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Parent folder ID (default: root)")
	cmd.MarkFlagRequired("name")

	return cmd
}

// newFoldersListCmd creates the 'folders list' command.
func newFoldersListCmd() *cobra.Command {
	var parentID string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Long: `List subfolders of a folder, the root folders, or every folder.

Example:
  cloudbox folders list
  cloudbox folders list --parent <folder-id>
  cloudbox folders list --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx := GetContext()

			folders, err := func() ([]models.Folder, error) {
				switch {
				case all:
					return a.folders.ListAll(ctx)
				case parentID != "":
					return a.folders.Subfolders(ctx, parentID)
				default:
					return a.folders.Roots(ctx)
				}
			}()
			if err != nil {
				return fmt.Errorf("failed to list folders: %w", err)
			}

			if len(folders) == 0 {
				fmt.Println("(no folders)")
				return nil
			}
			printFolderTable(folders)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Parent folder ID (default: root)")
	cmd.Flags().BoolVar(&all, "all", false, "List every folder")

	return cmd
}

// newFoldersRenameCmd creates the 'folders rename' command.
func newFoldersRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <folder-id> <new-name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			if err := a.folders.Rename(GetContext(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to rename folder: %w", err)
			}
			fmt.Printf("✓ Renamed to %s\n", args[1])
			return nil
		},
	}
}

// newFoldersMoveCmd creates the 'folders move' command.
func newFoldersMoveCmd() *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "move <folder-id>",
		Short: "Move a folder under another parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			if err := a.folders.Move(GetContext(), args[0], parentID); err != nil {
				return fmt.Errorf("failed to move folder: %w", err)
			}
			fmt.Println("✓ Moved")
			return nil
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "New parent folder ID (default: root)")
	return cmd
}

// newFoldersDeleteCmd creates the 'folders delete' command.
func newFoldersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Move a folder and its contents to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			if !confirm(fmt.Sprintf("Move folder %s and all its contents to trash?", args[0])) {
				fmt.Println("Aborted.")
				return nil
			}
			if err := a.folders.Trash(GetContext(), args[0]); err != nil {
				return fmt.Errorf("failed to trash folder: %w", err)
			}
			fmt.Println("✓ Moved to trash")
			return nil
		},
	}
}
