package results

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/srcfetch/pkg/vcs"
)

func testRecord(pkg string) *Record {
	return New(pkg, "job-1", &vcs.Result{
		Provider: "Git",
		URL:      "https://github.com/babel/babel.git",
		Revision: "6aebafa",
		Path:     "packages/babel-code-frame",
		Dir:      "/tmp/out",
	}, false)
}

func TestNewRecord(t *testing.T) {
	rec := testRecord("babel-code-frame")

	if rec.ID == "" {
		t.Error("record must get an ID")
	}
	if rec.Package != "babel-code-frame" || rec.JobID != "job-1" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Provider != "Git" || rec.Revision != "6aebafa" {
		t.Errorf("record = %+v", rec)
	}
	if rec.DownloadedAt.IsZero() {
		t.Error("DownloadedAt must be set")
	}

	other := testRecord("babel-code-frame")
	if other.ID == rec.ID {
		t.Error("IDs must be unique")
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	rec := testRecord("pkg-a")
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("record not found after save")
	}
	if got.URL != rec.URL || got.Package != rec.Package {
		t.Errorf("got %+v, want %+v", got, rec)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	got, err := store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for missing record", got)
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	older := testRecord("older")
	older.DownloadedAt = time.Now().UTC().Add(-time.Hour)
	newer := testRecord("newer")

	for _, rec := range []*Record{older, newer} {
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Package != "newer" {
		t.Errorf("list order = [%s, %s], want newest first", records[0].Package, records[1].Package)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	rec := testRecord("pkg-a")
	if err := store.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, rec.ID); got != nil {
		t.Error("record still present after delete")
	}

	// Deleting an absent record is not an error.
	if err := store.Delete(ctx, "no-such-id"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}
