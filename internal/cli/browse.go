// Package cli interactive browse shell.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudbox/cloudbox-cli/internal/browser"
	"github.com/cloudbox/cloudbox-cli/internal/transfer"
)

// newBrowseCmd creates the 'browse' command, an interactive shell over
// the folder tree.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse folders interactively",
		Long: `Open an interactive shell for navigating the folder tree.

Commands inside the shell:
  ls                    show the current listing
  cd <folder-name>      enter a subfolder
  cd ..                 go up one level
  crumbs                show the breadcrumb trail
  jump <n>              jump to breadcrumb n (0 = Home)
  find <text>           filter the listing by name
  mkdir <name>          create a folder here
  upload <path>...      upload local files here
  get <id> [path]       download a file
  rename <id> <name>    rename a file
  mv <id> <folder-id>   move a file
  rm <id>               move a file to trash
  restore <id>          bring a trashed file back
  purge <id>            delete a file for good
  star <id>             toggle a file's star
  share <id> <email>    share a file (viewer access)
  refresh               refetch the listing
  exit                  leave the shell`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			return runShell(a)
		},
	}
}

func runShell(a *app) error {
	ctx := GetContext()

	if err := a.browser.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load root listing: %w", err)
	}
	printListing(a.browser)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("cloudbox:%s> ", breadcrumbPath(a.browser))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "exit" || cmd == "quit" {
			return nil
		}
		if err := runShellCommand(a, cmd, args); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func runShellCommand(a *app, cmd string, args []string) error {
	ctx := GetContext()
	b := a.browser

	switch cmd {
	case "ls":
		printListing(b)

	case "cd":
		if len(args) != 1 {
			return errors.New("usage: cd <folder-name> | cd ..")
		}
		if args[0] == ".." {
			if err := b.Up(ctx); err != nil {
				return err
			}
			printListing(b)
			return nil
		}
		folders, _ := b.Listing()
		for _, f := range folders {
			if f.Name == args[0] {
				if err := b.EnterFolder(ctx, f.Ref()); err != nil {
					return err
				}
				printListing(b)
				return nil
			}
		}
		return fmt.Errorf("no folder named %q here", args[0])

	case "crumbs":
		for i, crumb := range b.Breadcrumbs() {
			fmt.Printf("  %d: %s\n", i, crumb.Name)
		}

	case "jump":
		if len(args) != 1 {
			return errors.New("usage: jump <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("not a breadcrumb index: %q", args[0])
		}
		if n < 0 || n >= len(b.Breadcrumbs()) {
			return fmt.Errorf("breadcrumb %d does not exist", n)
		}
		if err := b.JumpToBreadcrumb(ctx, n); err != nil {
			return err
		}
		printListing(b)

	case "find":
		if len(args) == 0 {
			return errors.New("usage: find <text>")
		}
		folders, files := b.Filter(strings.Join(args, " "))
		printFolderTable(folders)
		printFileTable(files)

	case "mkdir":
		if len(args) == 0 {
			return errors.New("usage: mkdir <name>")
		}
		folder, err := b.CreateFolder(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created %s (%s)\n", folder.Name, folder.ID)
		printListing(b)

	case "upload":
		if len(args) == 0 {
			return errors.New("usage: upload <path>...")
		}
		return shellUpload(a, args)

	case "rename":
		if len(args) != 2 {
			return errors.New("usage: rename <file-id> <new-name>")
		}
		if err := b.RenameFile(ctx, args[0], args[1]); err != nil {
			return err
		}
		printListing(b)

	case "mv":
		if len(args) != 2 {
			return errors.New("usage: mv <file-id> <folder-id>")
		}
		target := args[1]
		if target == "/" {
			target = ""
		}
		if err := b.MoveFile(ctx, args[0], target); err != nil {
			return err
		}
		printListing(b)

	case "rm":
		if len(args) != 1 {
			return errors.New("usage: rm <file-id>")
		}
		if !confirm(fmt.Sprintf("Move file %s to trash?", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}
		if err := b.TrashFile(ctx, args[0]); err != nil {
			return err
		}
		printListing(b)

	case "restore":
		if len(args) != 1 {
			return errors.New("usage: restore <file-id>")
		}
		if err := b.RestoreFile(ctx, args[0]); err != nil {
			return err
		}
		printListing(b)

	case "purge":
		if len(args) != 1 {
			return errors.New("usage: purge <file-id>")
		}
		if !confirm(fmt.Sprintf("Permanently delete %s? This cannot be undone.", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}
		if err := b.PurgeFile(ctx, args[0]); err != nil {
			return err
		}
		printListing(b)

	case "get":
		if len(args) < 1 || len(args) > 2 {
			return errors.New("usage: get <file-id> [output-path]")
		}
		output := ""
		if len(args) == 2 {
			output = args[1]
		}
		return downloadFile(a, args[0], output)

	case "share":
		if len(args) != 2 {
			return errors.New("usage: share <file-id> <email>")
		}
		share, err := a.shares.Create(ctx, args[0], args[1], "VIEWER")
		if err != nil {
			return err
		}
		fmt.Printf("✓ Shared with %s (%s)\n", args[1], share.Permission)

	case "star":
		if len(args) != 1 {
			return errors.New("usage: star <file-id>")
		}
		if err := b.ToggleStar(ctx, args[0]); err != nil {
			return err
		}
		printListing(b)

	case "refresh":
		if err := b.Refresh(ctx); err != nil {
			return err
		}
		printListing(b)

	case "help":
		fmt.Println("commands: ls cd crumbs jump find mkdir upload get rename mv rm restore purge star share refresh exit")

	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return nil
}

func shellUpload(a *app, paths []string) error {
	sources := make([]transfer.Source, 0, len(paths))
	for _, path := range paths {
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

	batch, err := a.browser.Upload(GetContext(), sources)
	if err != nil {
		return err
	}
	for _, task := range batch.Tasks {
		switch task.Status {
		case transfer.StatusSuccess:
			fmt.Printf("✓ %s\n", task.Name)
		case transfer.StatusFailed:
			fmt.Printf("✗ %s: %v\n", task.Name, task.Err)
		}
	}
	printListing(a.browser)
	return nil
}

func breadcrumbPath(b *browser.Controller) string {
	crumbs := b.Breadcrumbs()
	names := make([]string, len(crumbs))
	for i, c := range crumbs {
		names[i] = c.Name
	}
	return strings.Join(names, "/")
}

func printListing(b *browser.Controller) {
	folders, files := b.Listing()
	if len(folders) == 0 && len(files) == 0 {
		fmt.Println("(empty)")
		return
	}
	printFolderTable(folders)
	printFileTable(files)
}
