package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/srcfetch/pkg/vcs"
)

// tagsCommand creates the tags command.
func (c *CLI) tagsCommand() *cobra.Command {
	var (
		provider string
		noCache  bool
		pick     bool
	)

	cmd := &cobra.Command{
		Use:   "tags <url>",
		Short: "List a repository's release tags",
		Long: `List a repository's release tags.

Tags are printed in the order the remote reports them. Listings are cached
for a few hours; use --no-cache to force a fresh lookup. With --pick an
interactive selector is shown and the chosen tag is printed on stdout,
ready to feed into 'download --revision'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTags(cmd.Context(), vcs.Normalize(args[0]), provider, noCache, pick)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "VCS provider: git, hg, svn (default: inferred from the URL)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote-metadata cache")
	cmd.Flags().BoolVar(&pick, "pick", false, "interactively select one tag")

	return cmd
}

// runTags lists (or interactively picks from) the repository's tags.
func (c *CLI) runTags(ctx context.Context, url, provider string, noCache, pick bool) error {
	registry := vcs.NewRegistry(&vcs.Runner{Lookup: c.Config.clientLookup()}, c.metadataCache(noCache))
	backend, err := registry.Select(provider, url)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Listing tags of %s...", url))
	spinner.Start()

	var tags []string
	for tag, err := range backend.Tags(ctx, url) {
		if err != nil {
			spinner.StopWithError("Tag listing failed")
			return err
		}
		tags = append(tags, tag)
	}
	spinner.Stop()

	if len(tags) == 0 {
		printInfo("No tags found")
		return nil
	}

	if pick {
		selected, err := pickTag(tags)
		if err != nil {
			return err
		}
		if selected != "" {
			fmt.Println(selected)
		}
		return nil
	}

	for _, tag := range tags {
		fmt.Println(tag)
	}
	printDetail("%d tags", len(tags))
	return nil
}

// pickTag runs the interactive tag selector and returns the chosen tag, or
// "" when the selection was aborted.
func pickTag(tags []string) (string, error) {
	model, err := tea.NewProgram(NewTagListModel(tags)).Run()
	if err != nil {
		return "", fmt.Errorf("tag selector: %w", err)
	}
	final, ok := model.(TagListModel)
	if !ok || final.Selected == "" {
		return "", nil
	}
	return final.Selected, nil
}
