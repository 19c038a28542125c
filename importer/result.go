package importer

import (
	"fmt"
	"strings"
)

// Duplicate records a row whose candidate collided with an existing record.
type Duplicate struct {
	ExistingID int64
	Message    string
}

// Result is the outcome of one import run.
//
// Success+Failed is the number of rows that reached a terminal outcome.
// Duplicates are counted in Failed and listed again in Duplicates. A run
// aborted because required headers were missing has zero counters, no
// Errors and a non-empty MissingHeaders.
type Result struct {
	Success    int
	Failed     int
	Errors     []string
	Duplicates []Duplicate

	MissingHeaders []string

	// Transactional is true when the rows ran inside a transaction and
	// Committed when that transaction committed.
	Transactional bool
	Committed     bool
}

func newResult() Result {
	return Result{
		Errors:     make([]string, 0),
		Duplicates: make([]Duplicate, 0),
	}
}

// Processed returns the number of rows that reached a terminal outcome.
func (r Result) Processed() int {
	return r.Success + r.Failed
}

// Aborted reports whether the run stopped before any row because required
// headers were missing.
func (r Result) Aborted() bool {
	return len(r.MissingHeaders) > 0
}

// Durable reports whether the counted successes are known to be persisted.
// It is false when the run's transaction failed to commit; Success then
// describes the intended outcome only.
func (r Result) Durable() bool {
	return !r.Transactional || r.Committed
}

// Summary renders the counters as "38 imported, 2 failed, 1 duplicate".
func (r Result) Summary() string {
	parts := []string{
		fmt.Sprintf("%d imported", r.Success),
		fmt.Sprintf("%d failed", r.Failed),
	}
	if n := len(r.Duplicates); n == 1 {
		parts = append(parts, "1 duplicate")
	} else {
		parts = append(parts, fmt.Sprintf("%d duplicates", n))
	}
	return strings.Join(parts, ", ")
}
