package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/srcfetch/pkg/vcs"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <url-or-directory>",
		Short: "Decompose a URL or inspect a local working copy",
		Long: `Decompose a URL or inspect a local working copy.

Given a URL, info normalizes it and shows the provider, repository address,
revision and sub-path implied by the URL. Given a directory inside a
checked-out working copy, info shows which VCS owns it, the remote address,
the current revision and the directory's path below the working copy root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if stat, err := os.Stat(args[0]); err == nil && stat.IsDir() {
				return c.runDirInfo(cmd.Context(), args[0])
			}
			return runURLInfo(args[0])
		},
	}
	return cmd
}

// runURLInfo shows the normalized and decomposed form of a URL.
func runURLInfo(rawURL string) error {
	normalized := vcs.Normalize(rawURL)
	desc, confident := vcs.Split(normalized)

	fmt.Println(StyleTitle.Render("URL"))
	printKeyValue("normalized", normalized)
	if !confident {
		printDetail("The URL was not recognized as a hosting-service link; it is used as-is.")
		return nil
	}
	printKeyValue("provider", desc.Provider)
	printKeyValue("repository", desc.URL)
	printKeyValue("revision", desc.Revision)
	printKeyValue("path", desc.Path)
	return nil
}

// runDirInfo inspects the working copy containing dir.
func (c *CLI) runDirInfo(ctx context.Context, dir string) error {
	registry := vcs.NewRegistry(&vcs.Runner{Lookup: c.Config.clientLookup()}, c.metadataCache(true))

	backend, root, ok := registry.ForDirectory(dir)
	if !ok {
		return fmt.Errorf("%s is not inside a known working copy", dir)
	}

	rel, err := vcs.PathToRoot(root, dir)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render("Working copy"))
	printKeyValue("provider", backend.Name())
	printKeyValue("root", root)
	printKeyValue("path", rel)

	if url, err := backend.RemoteURL(ctx, root); err == nil {
		printKeyValue("remote", url)
	}
	if rev, err := backend.Revision(ctx, root); err == nil {
		printKeyValue("revision", rev)
	}
	return nil
}
