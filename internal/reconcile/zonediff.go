package reconcile

import (
	"slices"
	"sort"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// ZoneDiff is the result of comparing a desired zone to a live one.
type ZoneDiff struct {
	// Changes holds one entry per differing attribute and per drifting rrset.
	Changes ChangeSet
	// Attributes holds the wanted values of the differing attributes.
	Attributes map[string]dns.Value
	// RRSets holds the rrset comparison results, including up-to-date ones.
	RRSets []RRSetDiff
}

// Empty reports whether the zone is already converged.
func (d ZoneDiff) Empty() bool {
	return len(d.Changes) == 0
}

// DiffAttributes compares every wanted attribute to the live value with the
// same key. Scalars compare by equality, lists in order except nameservers,
// and record lists through DiffRRSets. Live keys not wanted are ignored.
func DiffAttributes(log logr.Logger, want, have map[string]dns.Value) (ZoneDiff, error) {
	diff := ZoneDiff{
		Changes:    ChangeSet{},
		Attributes: map[string]dns.Value{},
	}

	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		wantValue := want[key]
		haveValue, found := have[key]
		log.V(1).Info("comparing attribute", "key", key, "want", wantValue.String(), "found", found)

		if !found {
			if wantValue.Kind() == dns.KindRecordList {
				sets, err := DiffRRSets(log, wantValue.RRSets(), nil)
				if err != nil {
					return ZoneDiff{}, err
				}
				diff.addRRSets(sets)
				continue
			}
			diff.Changes[key] = Change{New: wantValue.Interface()}
			diff.Attributes[key] = wantValue
			continue
		}

		if wantValue.Kind() != haveValue.Kind() {
			return ZoneDiff{}, &TypeMismatchError{Key: key, Want: wantValue.Kind(), Have: haveValue.Kind()}
		}

		switch wantValue.Kind() {
		case dns.KindRecordList:
			sets, err := DiffRRSets(log, wantValue.RRSets(), haveValue.RRSets())
			if err != nil {
				return ZoneDiff{}, err
			}
			diff.addRRSets(sets)
			continue
		case dns.KindList:
			if listEqual(key, wantValue, haveValue) {
				continue
			}
		default:
			if wantValue.Equal(haveValue) {
				continue
			}
		}

		log.V(1).Info("attribute differs", "key", key, "old", haveValue.String(), "new", wantValue.String())
		diff.Changes[key] = Change{Old: haveValue.Interface(), New: wantValue.Interface()}
		diff.Attributes[key] = wantValue
	}

	return diff, nil
}

func (d *ZoneDiff) addRRSets(sets []RRSetDiff) {
	d.RRSets = append(d.RRSets, sets...)
	for _, s := range sets {
		if s.Drift == DriftNone {
			continue
		}
		d.Changes[s.Want.Key()] = s.Change()
	}
}

// listEqual ignores order for nameservers only.
func listEqual(key string, want, have dns.Value) bool {
	w, h := want.Items(), have.Items()
	if key == AttrNameservers {
		slices.Sort(w)
		slices.Sort(h)
	}
	return slices.Equal(w, h)
}
