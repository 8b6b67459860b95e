// Package cli implements the srcfetch command-line interface.
//
// This package provides commands for resolving package source locations,
// downloading source code via the installed VCS clients, inspecting local
// working copies and managing the metadata cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - download: Fetch the source code behind a VCS or repository-browsing URL
//   - batch: Download every package listed in a TOML manifest
//   - info: Decompose a URL or inspect a local working copy
//   - tags: List (and interactively pick from) a repository's release tags
//   - serve: Expose resolution and downloads over a small JSON API
//   - cache: Manage the remote-metadata cache
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/srcfetch/pkg/buildinfo"
	"github.com/matzehuels/srcfetch/pkg/cache"
	"github.com/matzehuels/srcfetch/pkg/results"
	"github.com/matzehuels/srcfetch/pkg/vcs"
)

// appName is the application name used for directories and display.
const appName = "srcfetch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration (falling back to defaults when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: MustLoadConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "srcfetch",
		Short:        "Srcfetch downloads package source code from its VCS repository",
		Long:         `Srcfetch resolves where a package's source code lives (Git, Mercurial or Subversion, including repository-browsing URLs such as GitHub tree/blob links) and checks it out using the locally installed VCS clients.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.downloadCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.tagsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newDownloader creates a downloader wired with the configured metadata
// cache and client overrides.
func (c *CLI) newDownloader(noCache bool) *vcs.Downloader {
	meta := c.metadataCache(noCache)
	runner := &vcs.Runner{Lookup: c.Config.clientLookup()}
	return vcs.NewDownloader(vcs.NewRegistry(runner, meta), c.Logger)
}

// metadataCache builds the remote-metadata cache per configuration. Cache
// setup failures degrade to no caching rather than failing the command.
func (c *CLI) metadataCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	meta, err := c.Config.openCache()
	if err != nil {
		c.Logger.Warn("metadata cache unavailable, continuing without", "err", err)
		return cache.NewNullCache()
	}
	return meta
}

// resultStore opens the configured download-record store.
func (c *CLI) resultStore(ctx context.Context) (results.Store, error) {
	return c.Config.openResultStore(ctx)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/srcfetch/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
