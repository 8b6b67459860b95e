// Package vcs resolves where a package's source code lives and retrieves it
// into a local working copy.
//
// The package reconciles up to three partial views of the same repository:
// metadata declared in a package manifest, a heuristic reading of a hosting
// service URL, and the state of an already checked-out working tree. The
// merged descriptor selects one of a fixed set of backends (Git, Mercurial,
// Subversion), each a stateless adapter over the corresponding external
// client program.
//
// # Flow
//
//	declared := vcs.Descriptor{URL: "https://github.com/babel/babel/tree/master/packages/babel-code-frame"}
//	dl := vcs.NewDownloader(vcs.NewRegistry(nil, metadataCache), logger)
//	result, err := dl.Download(ctx, declared, targetDir, "7.0.0")
//
// URL decomposition never guesses: an unrecognized host, a query string or a
// fragment degrades to an opaque passthrough descriptor instead of a parse
// error. A repository that happens to be named "blob" or "tree" is never
// mistaken for a browsing marker because markers are only recognized as the
// exact third path segment.
package vcs
