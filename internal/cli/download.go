package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
	"github.com/matzehuels/srcfetch/pkg/results"
	"github.com/matzehuels/srcfetch/pkg/vcs"
)

// downloadCommand creates the download command.
func (c *CLI) downloadCommand() *cobra.Command {
	var (
		provider    string
		revision    string
		subPath     string
		versionHint string
		output      string
		noCache     bool
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download source code from a VCS repository",
		Long: `Download source code from a VCS repository.

The URL may be a plain clone URL or a repository-browsing URL such as a
GitHub tree/blob link; branch, commit and sub-path information embedded in
the URL is extracted automatically. Explicit flags always win over what the
URL implies.

The checkout lands in a directory named after the repository unless
--output is given. The target directory must be empty or absent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			declared := vcs.Descriptor{
				Provider: provider,
				URL:      vcs.Normalize(args[0]),
				Revision: revision,
				Path:     subPath,
			}
			target := output
			if target == "" {
				target = defaultTargetDir(declared.URL)
			}
			return c.runDownload(cmd.Context(), declared, target, versionHint, noCache, save)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "VCS provider: git, hg, svn (default: inferred from the URL)")
	cmd.Flags().StringVarP(&revision, "revision", "r", "", "branch, tag or revision to check out")
	cmd.Flags().StringVar(&subPath, "path", "", "limit the checkout to a repository sub-path")
	cmd.Flags().StringVar(&versionHint, "version", "", "package version used to guess a release tag when no revision is known")
	cmd.Flags().StringVarP(&output, "output", "o", "", "target directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote-metadata cache")
	cmd.Flags().BoolVar(&save, "save", false, "record the download in the result store")

	return cmd
}

// runDownload performs a single download and reports the outcome.
func (c *CLI) runDownload(ctx context.Context, declared vcs.Descriptor, target, versionHint string, noCache, save bool) error {
	downloader := c.newDownloader(noCache)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Downloading %s...", declared.URL))
	spinner.Start()

	result, err := downloader.Download(ctx, declared, target, versionHint)
	partial := apperrors.Is(err, apperrors.ErrCodePartialResolution)
	switch {
	case err != nil && !partial:
		spinner.StopWithError("Download failed")
		return err
	case partial:
		spinner.StopWithWarning(apperrors.UserMessage(err))
	default:
		spinner.Stop()
	}

	printSuccess("Downloaded %s", result.URL)
	printKeyValue("provider", result.Provider)
	printKeyValue("revision", result.Revision)
	if result.Path != "" {
		printKeyValue("path", result.Path)
	}
	printFile(result.Dir)

	if save {
		if err := c.saveRecord(ctx, "", "", result, partial); err != nil {
			printWarning("Could not record download: %v", err)
		}
	}
	return nil
}

// saveRecord persists a download record in the configured store.
func (c *CLI) saveRecord(ctx context.Context, pkgName, jobID string, result *vcs.Result, partial bool) error {
	store, err := c.resultStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(ctx, results.New(pkgName, jobID, result, partial))
}

// defaultTargetDir derives a checkout directory name from the repository
// URL, using the bare repository address when the URL is a browsing link.
func defaultTargetDir(url string) string {
	if desc, ok := vcs.Split(url); ok {
		url = desc.URL
	}
	trimmed := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	base := filepath.Base(trimmed)
	if base == "." || base == "/" || base == "" {
		return "source"
	}
	return base
}
