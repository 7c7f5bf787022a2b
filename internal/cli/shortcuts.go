// Package cli provides command shortcuts for common operations.
package cli

import "github.com/spf13/cobra"

// AddShortcuts adds shortcut commands to the root command.
// Shortcuts provide convenient aliases for commonly-used operations.
func AddShortcuts(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newLsShortcut())
	rootCmd.AddCommand(newUploadShortcut())
	rootCmd.AddCommand(newDownloadShortcut())
	rootCmd.AddCommand(newSearchShortcut())
	rootCmd.AddCommand(newMkdirShortcut())
}

// newLsShortcut creates the 'ls' shortcut command.
// Shortcut for: files list
func newLsShortcut() *cobra.Command {
	cmd := newFilesListCmd()
	cmd.Use = "ls"
	cmd.Short = "List files (shortcut for 'files list')"
	return cmd
}

// newUploadShortcut creates the 'upload' shortcut command.
// Shortcut for: files upload
func newUploadShortcut() *cobra.Command {
	cmd := newFilesUploadCmd()
	cmd.Use = "upload <path>..."
	cmd.Short = "Upload files (shortcut for 'files upload')"
	return cmd
}

// newDownloadShortcut creates the 'download' shortcut command.
// Shortcut for: files download
func newDownloadShortcut() *cobra.Command {
	cmd := newFilesDownloadCmd()
	cmd.Use = "download <file-id>"
	cmd.Short = "Download a file (shortcut for 'files download')"
	return cmd
}

// newSearchShortcut creates the 'search' shortcut command.
// Shortcut for: files search
func newSearchShortcut() *cobra.Command {
	cmd := newFilesSearchCmd()
	cmd.Short = "Search files (shortcut for 'files search')"
	return cmd
}

// newMkdirShortcut creates the 'mkdir' shortcut command.
// Shortcut for: folders create
func newMkdirShortcut() *cobra.Command {
	cmd := newFoldersCreateCmd()
	cmd.Use = "mkdir"
	cmd.Short = "Create a folder (shortcut for 'folders create')"
	return cmd
}
