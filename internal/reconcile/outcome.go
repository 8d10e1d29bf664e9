package reconcile

import (
	"encoding/json"
)

// Result is the tri-state result of a reconciliation.
type Result int

const (
	// ResultFailed means the reconciliation could not converge the zone.
	ResultFailed Result = iota
	// ResultSucceeded means changes were applied or nothing had to change.
	ResultSucceeded
	// ResultPending means a dry run found changes that would be applied.
	ResultPending
)

func (r Result) String() string {
	switch r {
	case ResultSucceeded:
		return "succeeded"
	case ResultPending:
		return "pending"
	default:
		return "failed"
	}
}

// Bool returns the result as true, false or nil (pending).
func (r Result) Bool() *bool {
	var b bool
	switch r {
	case ResultSucceeded:
		b = true
	case ResultPending:
		return nil
	}
	return &b
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Bool())
}

func (r Result) MarshalYAML() (any, error) {
	return r.Bool(), nil
}

// Change is an old/new pair. A nil side means the key is absent there.
type Change struct {
	Old any `json:"old" yaml:"old"`
	New any `json:"new" yaml:"new"`
}

// ChangeSet maps a zone attribute name, or "{name}_{type}" for an rrset,
// to its change.
type ChangeSet map[string]Change

// RRSetState is the partial view of an rrset recorded in a change.
// Records maps content to its active flag; a nil flag means the record is
// absent on that side.
type RRSetState struct {
	TTL     *int             `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Records map[string]*bool `json:"records,omitempty" yaml:"records,omitempty"`
}

// Outcome is the uniform terminal record of a reconciliation.
type Outcome struct {
	Name    string `json:"name" yaml:"name"`
	Result  Result `json:"result" yaml:"result"`
	Comment string `json:"comment" yaml:"comment"`
	// Changes is set by zone reconciliations.
	Changes ChangeSet `json:"changes,omitempty" yaml:"changes,omitempty"`
	// RRSetChanges is set by rrset reconciliations, keyed by rrset name.
	RRSetChanges map[string][]Change `json:"rrset_changes,omitempty" yaml:"rrset_changes,omitempty"`
}

// HasChanges reports whether any change was recorded.
func (o Outcome) HasChanges() bool {
	return len(o.Changes) > 0 || len(o.RRSetChanges) > 0
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
