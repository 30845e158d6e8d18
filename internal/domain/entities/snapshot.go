package entities

import "time"

// DatasetSnapshot represents a depth-1 checkout of an externally owned data
// repository. It always reflects the tip of the remote default branch at
// fetch time; the harness never reuses a snapshot across runs.
type DatasetSnapshot struct {
	URL       string
	Path      string
	Commit    string
	FetchedAt time.Time
}
