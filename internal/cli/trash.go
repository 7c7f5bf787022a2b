// Package cli trash operation commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newTrashCmd creates the 'trash' command group.
func newTrashCmd() *cobra.Command {
	trashCmd := &cobra.Command{
		Use:   "trash",
		Short: "Trash operations (list, restore, delete, empty)",
		Long:  `Commands for managing the trash. Items here can be restored or deleted for good.`,
	}

	trashCmd.AddCommand(newTrashListCmd())
	trashCmd.AddCommand(newTrashRestoreCmd())
	trashCmd.AddCommand(newTrashDeleteCmd())
	trashCmd.AddCommand(newTrashEmptyCmd())

	return trashCmd
}

// newTrashListCmd creates the 'trash list' command.
func newTrashListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trashed files and folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			contents, err := a.trash.List(GetContext())
			if err != nil {
				return fmt.Errorf("failed to list trash: %w", err)
			}

			if len(contents.Folders) == 0 && len(contents.Files) == 0 {
				fmt.Println("Trash is empty.")
				return nil
			}
			printFolderTable(contents.Folders)
			printFileTable(contents.Files)
			return nil
		},
	}
}

// newTrashRestoreCmd creates the 'trash restore' command.
func newTrashRestoreCmd() *cobra.Command {
	var isFolder bool

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a trashed file or folder",
		Long: `Put a trashed item back where it was.

Example:
  cloudbox trash restore <file-id>
  cloudbox trash restore --folder <folder-id>`,
		Args: cobra.ExactArgs(1),
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

			if isFolder {
				err = a.trash.RestoreFolder(ctx, args[0])
			} else {
				err = a.trash.RestoreFile(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to restore: %w", err)
			}
			fmt.Println("✓ Restored")
			return nil
		},
	}

	cmd.Flags().BoolVar(&isFolder, "folder", false, "The ID names a folder")
	return cmd
}

// newTrashDeleteCmd creates the 'trash delete' command.
func newTrashDeleteCmd() *cobra.Command {
	var isFolder bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a trashed file or folder",
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

			if !confirm(fmt.Sprintf("Permanently delete %s? This cannot be undone.", args[0])) {
				fmt.Println("Aborted.")
				return nil
			}

			ctx := GetContext()
			if isFolder {
				err = a.trash.PurgeFolder(ctx, args[0])
			} else {
				err = a.trash.PurgeFile(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete: %w", err)
			}
			fmt.Println("✓ Permanently deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&isFolder, "folder", false, "The ID names a folder")
	return cmd
}

// newTrashEmptyCmd creates the 'trash empty' command.
func newTrashEmptyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "empty",
		Short: "Permanently delete everything in the trash",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			if !confirm("Permanently delete everything in the trash? This cannot be undone.") {
				fmt.Println("Aborted.")
				return nil
			}
			if err := a.trash.Empty(GetContext()); err != nil {
				return fmt.Errorf("failed to empty trash: %w", err)
			}
			fmt.Println("✓ Trash emptied")
			return nil
		},
	}
}
