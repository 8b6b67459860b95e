package vcs

import (
	"path/filepath"

	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

// PathToRoot computes the path of location relative to the working copy
// root, rendered with forward slashes regardless of platform. Both inputs
// are resolved to canonical absolute form first, so logically-equal
// relative and absolute spellings produce identical results. Returns the
// empty string when location is the root itself.
func PathToRoot(root, location string) (string, error) {
	absRoot, err := canonicalAbs(root)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "resolve root %s", root)
	}
	absLocation, err := canonicalAbs(location)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "resolve location %s", location)
	}

	rel, err := filepath.Rel(absRoot, absLocation)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidPath, err,
			"%s is not reachable from %s", location, root)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// canonicalAbs resolves p to a clean absolute path, following symlinks when
// the path exists. Paths that do not exist yet fall back to the lexical
// absolute form so PathToRoot also works for planned locations.
func canonicalAbs(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}
