package dataset

import (
	"time"

	"github.com/riskibarqy/epl-insights/internal/domain/match"
)

// DefaultID names the snapshot bootstrapped from disk at startup.
const DefaultID = "default"

const (
	SourceFile   = "file"
	SourceURL    = "url"
	SourceUpload = "upload"
)

// Snapshot is one immutable, session-scoped load of a match dataset. Refresh
// replaces the whole snapshot from its recorded source; nothing mutates
// Records in place.
type Snapshot struct {
	ID         string
	Name       string
	SourceKind string
	SourceRef  string
	LoadedAt   time.Time
	Records    []match.Record
}

// Revision keys derived-value caches; it changes whenever the snapshot is
// replaced.
func (s Snapshot) Revision() string {
	return s.ID + "@" + s.LoadedAt.UTC().Format(time.RFC3339Nano)
}

// Refreshable reports whether the snapshot's source can be re-read. Inline
// uploads keep no re-readable source.
func (s Snapshot) Refreshable() bool {
	return s.SourceKind == SourceFile || s.SourceKind == SourceURL
}
