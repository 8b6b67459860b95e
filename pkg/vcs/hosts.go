package vcs

// hostRules describes how a known hosting service structures its browsing
// URLs. The marker keywords are only meaningful as the exact third path
// segment, after owner and repository.
type hostRules struct {
	// defaultProvider applies when the URL names a bare repository.
	defaultProvider string

	// branchMarkers indicate branch/tag browsing (e.g. "tree").
	branchMarkers map[string]bool

	// commitMarkers indicate single-commit or file browsing (e.g. "blob").
	commitMarkers map[string]bool

	// forcesGit is set for hosts whose browsing markers only exist under a
	// Git-compatible UI. Seeing such a marker overrides defaultProvider.
	forcesGit bool

	// gitSuffix is set for hosts whose canonical Git repository URLs carry
	// a ".git" suffix.
	gitSuffix bool
}

// knownHosts is the fixed table of recognized hosting services. Everything
// not listed here degrades to an opaque passthrough descriptor.
var knownHosts = map[string]hostRules{
	"github.com": {
		defaultProvider: ProviderGit,
		branchMarkers:   markers("tree"),
		commitMarkers:   markers("blob"),
		gitSuffix:       true,
	},
	"gitlab.com": {
		defaultProvider: ProviderGit,
		branchMarkers:   markers("tree"),
		commitMarkers:   markers("blob"),
		gitSuffix:       true,
	},
	// Bitbucket served Mercurial repositories for most of its history, so a
	// bare repository URL defaults to Mercurial. The "src" browser only
	// exists for Git repositories, so seeing it proves the repository is Git.
	"bitbucket.org": {
		defaultProvider: ProviderMercurial,
		branchMarkers:   markers("src"),
		commitMarkers:   markers("src"),
		forcesGit:       true,
		gitSuffix:       true,
	},
}

func markers(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
