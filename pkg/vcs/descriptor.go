package vcs

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical provider names. The capitalized spelling is the one reported to
// callers; matching against hints is always case-insensitive.
const (
	ProviderGit        = "Git"
	ProviderMercurial  = "Mercurial"
	ProviderSubversion = "Subversion"
)

// Descriptor is a partial description of a version controlled source
// location. Every field is independently optional; an empty string means
// "unknown", never "invalid". Descriptors are plain values and are freely
// copied.
type Descriptor struct {
	Provider string `json:"provider" toml:"provider"`
	URL      string `json:"url" toml:"url"`
	Revision string `json:"revision" toml:"revision"`
	Path     string `json:"path" toml:"path"`
}

// IsBlank reports whether nothing at all is known.
func (d Descriptor) IsBlank() bool {
	return d.Provider == "" && d.URL == "" && d.Revision == "" && d.Path == ""
}

// Result describes one completed checkout into one target directory.
// Revision is a concrete identifier whenever the backend was able to resolve
// the requested ref; Dir is owned by the caller after return.
type Result struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	Revision string `json:"revision"`
	Path     string `json:"path"`
	Dir      string `json:"dir"`
}

// Merge reconciles two partial descriptors field by field. For url, revision
// and path the primary value wins unless it is blank. The provider keeps the
// primary spelling unless both sides name the same provider and the
// secondary already uses the canonical capitalized spelling, which is then
// adopted; this normalizes inconsistent capitalization coming from heuristic
// sources without ever changing which provider was chosen. A blank secondary
// leaves the primary untouched.
func Merge(primary, secondary Descriptor) Descriptor {
	if secondary.IsBlank() {
		return primary
	}
	return Descriptor{
		Provider: mergeProvider(primary.Provider, secondary.Provider),
		URL:      firstNonBlank(primary.URL, secondary.URL),
		Revision: firstNonBlank(primary.Revision, secondary.Revision),
		Path:     firstNonBlank(primary.Path, secondary.Path),
	}
}

func mergeProvider(primary, secondary string) string {
	if primary == "" {
		return secondary
	}
	if strings.EqualFold(primary, secondary) && secondary == capitalize(secondary) {
		return secondary
	}
	return primary
}

func firstNonBlank(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// capitalize lower-cases s and upper-cases its first rune, producing the
// canonical provider spelling ("git" -> "Git", "GIT" -> "Git").
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}
