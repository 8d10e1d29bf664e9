package reconcile

import (
	"slices"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// Drift classifies how a wanted rrset differs from the live one.
type Drift int

const (
	// DriftNone means TTL and all wanted records already match.
	DriftNone Drift = iota
	// DriftTTL means only the TTL differs.
	DriftTTL
	// DriftRecords means at least one wanted record is missing or has a
	// different disabled flag, and the TTL matches.
	DriftRecords
	// DriftTTLAndRecords means both the TTL and the records differ.
	DriftTTLAndRecords
	// DriftNew means no live rrset has the wanted name and type.
	DriftNew
)

func (d Drift) String() string {
	switch d {
	case DriftNone:
		return "up-to-date"
	case DriftTTL:
		return "ttl"
	case DriftRecords:
		return "records"
	case DriftTTLAndRecords:
		return "ttl+records"
	case DriftNew:
		return "new"
	default:
		return "unknown"
	}
}

// RRSetDiff is the comparison of one wanted rrset with the live collection.
type RRSetDiff struct {
	Want  dns.RRSet
	Have  *dns.RRSet
	Drift Drift
	Old   *RRSetState
	New   *RRSetState
}

// Change returns the old/new pair recorded for the rrset.
func (d RRSetDiff) Change() Change {
	var c Change
	if d.Old != nil {
		c.Old = d.Old
	}
	if d.New != nil {
		c.New = d.New
	}
	return c
}

// DiffRRSets compares each wanted rrset against the live rrset with the same
// name and type. Live records that are not wanted are not reported: a
// REPLACE drops them server-side, but they alone never make an rrset drift.
// Two wanted rrsets with the same key are rejected, as they would produce
// conflicting REPLACE entries.
func DiffRRSets(log logr.Logger, want, have []dns.RRSet) ([]RRSetDiff, error) {
	if err := uniqueRRSets(want); err != nil {
		return nil, err
	}
	out := make([]RRSetDiff, 0, len(want))
	for _, w := range want {
		out = append(out, diffRRSet(log, w, have))
	}
	return out, nil
}

func uniqueRRSets(sets []dns.RRSet) error {
	seen := make(map[string]bool, len(sets))
	for _, s := range sets {
		if seen[s.Key()] {
			return &DuplicateRRSetError{Key: s.Key()}
		}
		seen[s.Key()] = true
	}
	return nil
}

func diffRRSet(log logr.Logger, want dns.RRSet, have []dns.RRSet) RRSetDiff {
	idx := slices.IndexFunc(have, func(h dns.RRSet) bool {
		return h.Name == want.Name && h.Type == want.Type
	})
	if idx < 0 {
		log.V(1).Info("rrset not found", "rrset", want.Key())
		return RRSetDiff{Want: want, Drift: DriftNew, New: stateOf(want)}
	}
	h := have[idx]

	ttlOK := want.TTL == nil || (h.TTL != nil && *want.TTL == *h.TTL)

	oldRecords := map[string]*bool{}
	newRecords := map[string]*bool{}
	for _, wr := range want.Records {
		if slices.Contains(h.Records, wr) {
			continue
		}
		ri := slices.IndexFunc(h.Records, func(hr dns.Record) bool { return hr.Content == wr.Content })
		if ri >= 0 {
			log.V(1).Info("record status mismatch", "rrset", want.Key(), "content", wr.Content)
			oldRecords[wr.Content] = boolPtr(!h.Records[ri].Disabled)
		} else {
			log.V(1).Info("record not found", "rrset", want.Key(), "content", wr.Content)
			oldRecords[wr.Content] = nil
		}
		newRecords[wr.Content] = boolPtr(!wr.Disabled)
	}
	recordsOK := len(newRecords) == 0

	d := RRSetDiff{Want: want, Have: &h}
	switch {
	case ttlOK && recordsOK:
		d.Drift = DriftNone
		return d
	case recordsOK:
		d.Drift = DriftTTL
		d.Old = &RRSetState{}
		d.New = &RRSetState{}
	case ttlOK:
		d.Drift = DriftRecords
		d.Old = &RRSetState{Records: oldRecords}
		d.New = &RRSetState{Records: newRecords}
	default:
		d.Drift = DriftTTLAndRecords
		d.Old = &RRSetState{Records: oldRecords}
		d.New = &RRSetState{Records: newRecords}
	}
	if !ttlOK {
		d.Old.TTL = copyTTL(h.TTL)
		d.New.TTL = copyTTL(want.TTL)
	}
	log.V(1).Info("rrset drift", "rrset", want.Key(), "drift", d.Drift.String())
	return d
}

// stateOf renders a whole rrset as a change state with every record's
// active flag.
func stateOf(s dns.RRSet) *RRSetState {
	st := &RRSetState{TTL: copyTTL(s.TTL), Records: make(map[string]*bool, len(s.Records))}
	for _, r := range s.Records {
		st.Records[r.Content] = boolPtr(!r.Disabled)
	}
	return st
}

func copyTTL(ttl *int) *int {
	if ttl == nil {
		return nil
	}
	return intPtr(*ttl)
}
