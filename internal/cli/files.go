// Package cli file operation commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudbox/cloudbox-cli/internal/models"
	"github.com/cloudbox/cloudbox-cli/internal/progress"
	"github.com/cloudbox/cloudbox-cli/internal/transfer"
)

// newFilesCmd creates the 'files' command group.
func newFilesCmd() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "File operations (list, upload, download, rename, move, star, search)",
		Long:  `Commands for managing files stored on the CloudBox server.`,
	}

	filesCmd.AddCommand(newFilesListCmd())
	filesCmd.AddCommand(newFilesUploadCmd())
	filesCmd.AddCommand(newFilesDownloadCmd())
	filesCmd.AddCommand(newFilesRenameCmd())
	filesCmd.AddCommand(newFilesMoveCmd())
	filesCmd.AddCommand(newFilesDeleteCmd())
	filesCmd.AddCommand(newFilesStarCmd())
	filesCmd.AddCommand(newFilesStarredCmd())
	filesCmd.AddCommand(newFilesRecentCmd())
	filesCmd.AddCommand(newFilesSearchCmd())
	filesCmd.AddCommand(newFilesShareLinkCmd())
	filesCmd.AddCommand(newFilesPublicCmd())

	return filesCmd
}

// printFileTable writes files as an aligned table on stdout.
func printFileTable(files []models.File) {
	if len(files) == 0 {
		fmt.Println("(no files)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tSTARRED\tUPDATED")
	for _, f := range files {
		star := ""
		if f.IsStarred {
			star = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.FileName, formatSize(f.FileSize), star, f.UpdatedAt)
	}
	w.Flush()
}

// printFolderTable writes folders as an aligned table on stdout.
func printFolderTable(folders []models.Folder) {
	if len(folders) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, f := range folders {
		fmt.Fprintf(w, "%s\t%s/\n", f.ID, f.Name)
	}
	w.Flush()
}

// newFilesListCmd creates the 'files list' command.
func newFilesListCmd() *cobra.Command {
	var folderID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files in a folder",
		Long: `List the files in a folder, or in the root when no folder is given.

Example:
  cloudbox files list
  cloudbox files list --folder <folder-id>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			files, err := a.files.List(GetContext(), folderID)
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}
			printFileTable(files)
			return nil
		},
	}

	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "Folder ID (default: root)")
	return cmd
}

// newFilesUploadCmd creates the 'files upload' command.
func newFilesUploadCmd() *cobra.Command {
	var folderID string

	cmd := &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload one or more files",
		Long: `Upload local files, one at a time and in order. A file that fails
does not stop the rest of the batch.

Example:
  cloudbox files upload report.pdf notes.txt
  cloudbox files upload --folder <folder-id> *.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			sources := make([]transfer.Source, 0, len(args))
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("failed to stat %s: %w", path, err)
				}
				if info.IsDir() {
					return fmt.Errorf("%s is a directory", path)
				}
				p := path
				sources = append(sources, transfer.Source{
					Name: filepath.Base(p),
					Size: info.Size(),
					Open: func() (io.ReadCloser, error) { return os.Open(p) },
				})
			}

			batch := a.uploads.Run(GetContext(), folderID, sources)
			for _, task := range batch.Tasks {
				switch task.Status {
				case transfer.StatusSuccess:
					fmt.Printf("✓ %s (%s)\n", task.Name, task.Result.ID)
				case transfer.StatusFailed:
					fmt.Printf("✗ %s: %v\n", task.Name, task.Err)
				}
			}
			if n := batch.Failed(); n > 0 {
				return fmt.Errorf("%d of %d uploads failed", n, len(batch.Tasks))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "Destination folder ID (default: root)")
	return cmd
}

// newFilesDownloadCmd creates the 'files download' command.
func newFilesDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Download a file",
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

			return downloadFile(a, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: server file name, else the file ID)")
	return cmd
}

func downloadFile(a *app, fileID, output string) error {
	ctx := GetContext()

	body, size, name, err := a.files.Download(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer body.Close()

	if output == "" {
		output = filepath.Base(name)
		if output == "" || output == "." || output == string(filepath.Separator) {
			output = fileID
		}
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer out.Close()

	bar := progress.NewBar()
	bar.Start(size, filepath.Base(output))
	if _, err := io.Copy(out, progress.NewReader(body, bar)); err != nil {
		bar.Error(err)
		return fmt.Errorf("download failed: %w", err)
	}
	bar.Finish()

	fmt.Printf("✓ Saved to %s\n", output)
	return nil
}

// newFilesRenameCmd creates the 'files rename' command.
func newFilesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file-id> <new-name>",
		Short: "Rename a file",
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

			if err := a.files.Rename(GetContext(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to rename: %w", err)
			}
			fmt.Printf("✓ Renamed to %s\n", args[1])
			return nil
		},
	}
}

// newFilesMoveCmd creates the 'files move' command.
func newFilesMoveCmd() *cobra.Command {
	var folderID string

	cmd := &cobra.Command{
		Use:   "move <file-id>",
		Short: "Move a file to another folder",
		Long: `Move a file into the folder given by --folder, or to the root when
the flag is omitted.`,
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

			if err := a.files.Move(GetContext(), args[0], folderID); err != nil {
				return fmt.Errorf("failed to move: %w", err)
			}
			fmt.Println("✓ Moved")
			return nil
		},
	}

	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "Target folder ID (default: root)")
	return cmd
}

// newFilesDeleteCmd creates the 'files delete' command.
func newFilesDeleteCmd() *cobra.Command {
	var permanent bool

	cmd := &cobra.Command{
		Use:   "delete <file-id>",
		Short: "Move a file to trash (or delete permanently)",
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
			ctx := GetContext()

			if permanent {
				if !confirm(fmt.Sprintf("Permanently delete file %s? This cannot be undone.", args[0])) {
					fmt.Println("Aborted.")
					return nil
				}
				if err := a.files.Purge(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete: %w", err)
				}
				fmt.Println("✓ Permanently deleted")
				return nil
			}

			if !confirm(fmt.Sprintf("Move file %s to trash?", args[0])) {
				fmt.Println("Aborted.")
				return nil
			}
			if err := a.files.Trash(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to trash: %w", err)
			}
			fmt.Println("✓ Moved to trash")
			return nil
		},
	}

	cmd.Flags().BoolVar(&permanent, "permanent", false, "Skip the trash and delete permanently")
	return cmd
}

// newFilesStarCmd creates the 'files star' command.
func newFilesStarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "star <file-id>",
		Short: "Toggle the star on a file",
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

			if err := a.files.ToggleStar(GetContext(), args[0]); err != nil {
				return fmt.Errorf("failed to toggle star: %w", err)
			}
			fmt.Println("✓ Star toggled")
			return nil
		},
	}
}

// newFilesStarredCmd creates the 'files starred' command.
func newFilesStarredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "starred",
		Short: "List starred files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			files, err := a.files.Starred(GetContext())
			if err != nil {
				return fmt.Errorf("failed to list starred files: %w", err)
			}
			printFileTable(files)
			return nil
		},
	}
}

// newFilesRecentCmd creates the 'files recent' command.
func newFilesRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently opened files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			files, err := a.files.Recent(GetContext())
			if err != nil {
				return fmt.Errorf("failed to list recent files: %w", err)
			}
			printFileTable(files)
			return nil
		},
	}
}

// newFilesSearchCmd creates the 'files search' command.
func newFilesSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search files across all folders",
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

			files, err := a.files.Search(GetContext(), args[0])
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			printFileTable(files)
			return nil
		},
	}
}

// newFilesShareLinkCmd creates the 'files share-link' command.
func newFilesShareLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share-link <file-id>",
		Short: "Create a public download link for a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			token, err := a.files.PublicLink(GetContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create public link: %w", err)
			}
			fmt.Printf("Token: %s\n", token)
			fmt.Printf("URL:   %s\n", a.files.PublicDownloadURL(token))
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

// newFilesPublicCmd creates the 'files public' command, the
// unauthenticated view of a shared file.
func newFilesPublicCmd() *cobra.Command {
	var download bool
	var output string

	cmd := &cobra.Command{
		Use:   "public <share-token>",
		Short: "Inspect or download a publicly shared file",
		Long: `Look up a file by its public share token. No login is required.

Example:
  cloudbox files public <token>
  cloudbox files public <token> --download -o report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			ctx := GetContext()

			file, err := a.files.PublicFile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to look up shared file: %w", err)
			}
			fmt.Printf("Name: %s\n", file.FileName)
			fmt.Printf("Size: %s\n", formatSize(file.FileSize))
			if file.FileType != "" {
				fmt.Printf("Type: %s\n", file.FileType)
			}

			if !download {
				return nil
			}

			body, size, _, err := a.files.PublicDownload(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to download: %w", err)
			}
			defer body.Close()

			if output == "" {
				output = file.FileName
			}
			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer out.Close()

			bar := progress.NewBar()
			bar.Start(size, file.FileName)
			if _, err := io.Copy(out, progress.NewReader(body, bar)); err != nil {
				bar.Error(err)
				return fmt.Errorf("download failed: %w", err)
			}
			bar.Finish()
			fmt.Printf("✓ Saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&download, "download", false, "Download the file content")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: shared file name)")
	return cmd
}
