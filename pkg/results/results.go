// Package results persists the outcome of completed source downloads.
//
// Each download produces one Record describing what was fetched and where it
// landed. Records outlive the process so batch runs can be audited and
// resumed. Two backends are provided:
//   - file: JSON files in a local directory, for CLI use
//   - mongo: a MongoDB collection, for shared deployments
package results

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/srcfetch/pkg/vcs"
)

// Record describes one completed (or partially completed) download.
type Record struct {
	ID           string    `json:"id" bson:"_id"`
	Package      string    `json:"package,omitempty" bson:"package,omitempty"`
	JobID        string    `json:"job_id,omitempty" bson:"job_id,omitempty"`
	Provider     string    `json:"provider" bson:"provider"`
	URL          string    `json:"url" bson:"url"`
	Revision     string    `json:"revision" bson:"revision"`
	Path         string    `json:"path,omitempty" bson:"path,omitempty"`
	Dir          string    `json:"dir" bson:"dir"`
	Partial      bool      `json:"partial,omitempty" bson:"partial,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at" bson:"downloaded_at"`
}

// Store is the interface for result persistence backends.
type Store interface {
	// Save persists a record, overwriting any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns nil, nil when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// New builds a record from a download result. pkgName and jobID may be
// blank for ad-hoc downloads.
func New(pkgName, jobID string, res *vcs.Result, partial bool) *Record {
	return &Record{
		ID:           uuid.NewString(),
		Package:      pkgName,
		JobID:        jobID,
		Provider:     res.Provider,
		URL:          res.URL,
		Revision:     res.Revision,
		Path:         res.Path,
		Dir:          res.Dir,
		Partial:      partial,
		DownloadedAt: time.Now().UTC(),
	}
}
