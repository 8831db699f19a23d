package deploy

import (
	"strings"

	"github.com/arthur-debert/dotr/pkg/errors"
)

// Status describes what happened to one unit
type Status string

const (
	// StatusDeployed means the destination was written (deploy)
	StatusDeployed Status = "deployed"
	// StatusUpdated means the stored source was overwritten (update)
	StatusUpdated Status = "updated"
	// StatusUnchanged means content was identical and nothing was written
	StatusUnchanged Status = "unchanged"
	// StatusChanged means the diff command found differences
	StatusChanged Status = "changed"
	// StatusMissing means one side of the comparison does not exist
	StatusMissing Status = "missing"
	// StatusSkipped means the unit was intentionally not processed,
	// e.g. a template source during update
	StatusSkipped Status = "skipped"
	// StatusFailed means the unit hit an isolated error
	StatusFailed Status = "failed"
)

// UnitResult is the outcome for a single unit
type UnitResult struct {
	Unit   string
	Status Status
	Err    error
}

// Result aggregates the per-unit outcomes of one command run
type Result struct {
	Units []UnitResult
}

func (r *Result) record(unit string, status Status, err error) {
	r.Units = append(r.Units, UnitResult{Unit: unit, Status: status, Err: err})
}

// Failed returns the units that reported an error
func (r *Result) Failed() []UnitResult {
	var failed []UnitResult
	for _, u := range r.Units {
		if u.Status == StatusFailed {
			failed = append(failed, u)
		}
	}
	return failed
}

// Written counts units whose file was actually written
func (r *Result) Written() int {
	n := 0
	for _, u := range r.Units {
		if u.Status == StatusDeployed || u.Status == StatusUpdated {
			n++
		}
	}
	return n
}

// Err returns an aggregate error naming the failing units, or nil when
// every unit succeeded. Commands use it for the process exit status.
func (r *Result) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, u := range failed {
		names[i] = u.Unit
	}
	return errors.Newf(errors.ErrIO, "%d unit(s) failed: %s", len(failed), strings.Join(names, ", "))
}
