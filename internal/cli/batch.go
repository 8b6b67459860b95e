package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
	"github.com/matzehuels/srcfetch/pkg/results"
	"github.com/matzehuels/srcfetch/pkg/vcs"
)

// batchManifest is the TOML format consumed by the batch command.
type batchManifest struct {
	Packages []batchPackage `toml:"package"`
}

// batchPackage describes one package to download.
type batchPackage struct {
	Name     string `toml:"name"`
	Provider string `toml:"provider"`
	URL      string `toml:"url"`
	Revision string `toml:"revision"`
	Path     string `toml:"path"`
	Version  string `toml:"version"`
	Target   string `toml:"target"`
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		outputDir string
		noCache   bool
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "batch <packages.toml>",
		Short: "Download every package listed in a TOML manifest",
		Long: `Download every package listed in a TOML manifest.

The manifest holds one [[package]] table per download:

  [[package]]
  name = "babel-code-frame"
  url = "https://github.com/babel/babel/tree/master/packages/babel-code-frame"
  version = "7.0.0"

Each run gets a job ID; every completed download is recorded in the result
store under that ID. With --keep-going a failed package is reported and
skipped instead of aborting the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], outputDir, noCache, keepGoing)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory to place the checkouts in")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote-metadata cache")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "continue after a failed package")

	return cmd
}

// runBatch downloads all manifest entries sequentially.
func (c *CLI) runBatch(ctx context.Context, manifestPath, outputDir string, noCache, keepGoing bool) error {
	manifest, err := loadBatchManifest(manifestPath)
	if err != nil {
		return err
	}
	if len(manifest.Packages) == 0 {
		printInfo("Manifest lists no packages")
		return nil
	}

	store, err := c.resultStore(ctx)
	if err != nil {
		return fmt.Errorf("open result store: %w", err)
	}
	defer store.Close()

	downloader := c.newDownloader(noCache)
	jobID := uuid.NewString()
	prog := newProgress(c.Logger)
	c.Logger.Info("starting batch download", "job", jobID, "packages", len(manifest.Packages))

	failed := 0
	for i, pkg := range manifest.Packages {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := pkg.Name
		if name == "" {
			name = fmt.Sprintf("package-%d", i+1)
		}
		target := pkg.Target
		if target == "" {
			target = defaultTargetDir(vcs.Normalize(pkg.URL))
		}
		target = filepath.Join(outputDir, target)

		declared := vcs.Descriptor{
			Provider: pkg.Provider,
			URL:      vcs.Normalize(pkg.URL),
			Revision: pkg.Revision,
			Path:     pkg.Path,
		}

		result, dlErr := downloader.Download(ctx, declared, target, pkg.Version)
		partial := apperrors.Is(dlErr, apperrors.ErrCodePartialResolution)
		if dlErr != nil && !partial {
			failed++
			printError("%s: %s", name, apperrors.UserMessage(dlErr))
			if !keepGoing {
				return fmt.Errorf("download %s: %w", name, dlErr)
			}
			continue
		}

		if partial {
			printWarning("%s: %s", name, apperrors.UserMessage(dlErr))
		} else {
			printSuccess("%s %s", name, StyleDim.Render("@ "+result.Revision))
		}

		if err := store.Save(ctx, results.New(name, jobID, result, partial)); err != nil {
			printWarning("%s: could not record download: %v", name, err)
		}
	}

	prog.done(fmt.Sprintf("Downloaded %d/%d packages", len(manifest.Packages)-failed, len(manifest.Packages)))
	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed", failed, len(manifest.Packages))
	}
	return nil
}

// loadBatchManifest reads and validates a batch manifest file.
func loadBatchManifest(path string) (*batchManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest batchManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	for i, pkg := range manifest.Packages {
		if pkg.URL == "" {
			return nil, fmt.Errorf("manifest %s: package %d has no url", path, i+1)
		}
	}
	return &manifest, nil
}
