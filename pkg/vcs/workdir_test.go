package vcs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathToRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := PathToRoot(root, nested)
	if err != nil {
		t.Fatalf("PathToRoot: %v", err)
	}
	if got != "src/lib" {
		t.Errorf("got %q, want src/lib", got)
	}
}

func TestPathToRootSameLocation(t *testing.T) {
	root := t.TempDir()
	got, err := PathToRoot(root, root)
	if err != nil {
		t.Fatalf("PathToRoot: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty string for root itself", got)
	}
}

func TestPathToRootRelativeAndAbsoluteAgree(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg", "util")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}

	fromAbs, err := PathToRoot(root, nested)
	if err != nil {
		t.Fatalf("absolute inputs: %v", err)
	}
	fromRel, err := PathToRoot(".", filepath.Join("pkg", "util"))
	if err != nil {
		t.Fatalf("relative inputs: %v", err)
	}
	if fromAbs != fromRel {
		t.Errorf("relative vs absolute disagree: %q vs %q", fromRel, fromAbs)
	}
	if fromAbs != "pkg/util" {
		t.Errorf("got %q, want pkg/util", fromAbs)
	}
}

func TestPathToRootNonexistentLocation(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	planned := filepath.Join(root, "not", "yet", "created")

	got, err := PathToRoot(root, planned)
	if err != nil {
		t.Fatalf("PathToRoot: %v", err)
	}
	if got != "not/yet/created" {
		t.Errorf("got %q, want not/yet/created", got)
	}
}
