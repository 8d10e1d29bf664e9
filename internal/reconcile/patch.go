package reconcile

import (
	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// DefaultTTL is used for written rrsets when neither the desired nor the
// live rrset carries a TTL.
const DefaultTTL = 3600

// BuildPatch assembles the mutation payload for an existing zone: every
// differing attribute plus a REPLACE entry for each drifting rrset.
// Up-to-date rrsets are left out.
func BuildPatch(diff ZoneDiff, defaultTTL int) *dns.ZonePayload {
	payload := &dns.ZonePayload{
		Attributes: diff.Attributes,
		RRSets:     replaceEntries(diff.RRSets, defaultTTL),
	}
	return payload
}

// BuildCreatePayload renders a full desired zone as a create payload.
func BuildCreatePayload(zone string, want map[string]dns.Value, defaultTTL int) *dns.ZonePayload {
	payload := &dns.ZonePayload{
		Name:       zone,
		Attributes: make(map[string]dns.Value, len(want)),
	}
	for k, v := range want {
		if k == AttrRRSets {
			for _, s := range v.RRSets() {
				payload.RRSets = append(payload.RRSets, dns.RRSetPatch{
					Name:    s.Name,
					Type:    s.Type,
					TTL:     fillTTL(s.TTL, nil, defaultTTL),
					Records: s.Records,
				})
			}
			continue
		}
		payload.Attributes[k] = v
	}
	return payload
}

// BuildDeletePayload tags each rrset for removal.
func BuildDeletePayload(sets []dns.RRSet) *dns.ZonePayload {
	payload := &dns.ZonePayload{RRSets: make([]dns.RRSetPatch, 0, len(sets))}
	for _, s := range sets {
		payload.RRSets = append(payload.RRSets, dns.RRSetPatch{
			Name:       s.Name,
			Type:       s.Type,
			ChangeType: dns.ChangeTypeDelete,
		})
	}
	return payload
}

// replaceEntries emits one REPLACE per drifting rrset; a repeated key keeps
// its first entry.
func replaceEntries(diffs []RRSetDiff, defaultTTL int) []dns.RRSetPatch {
	var out []dns.RRSetPatch
	seen := map[string]bool{}
	for _, d := range diffs {
		if d.Drift == DriftNone || seen[d.Want.Key()] {
			continue
		}
		seen[d.Want.Key()] = true
		var haveTTL *int
		if d.Have != nil {
			haveTTL = d.Have.TTL
		}
		out = append(out, dns.RRSetPatch{
			Name:       d.Want.Name,
			Type:       d.Want.Type,
			ChangeType: dns.ChangeTypeReplace,
			TTL:        fillTTL(d.Want.TTL, haveTTL, defaultTTL),
			Records:    d.Want.Records,
		})
	}
	return out
}

func fillTTL(want, have *int, defaultTTL int) *int {
	switch {
	case want != nil:
		return intPtr(*want)
	case have != nil:
		return intPtr(*have)
	default:
		return intPtr(defaultTTL)
	}
}

// createChanges records every wanted attribute and rrset as new.
func createChanges(want map[string]dns.Value) ChangeSet {
	changes := make(ChangeSet, len(want))
	for k, v := range want {
		if k == AttrRRSets {
			for _, s := range v.RRSets() {
				changes[s.Key()] = Change{New: stateOf(s)}
			}
			continue
		}
		changes[k] = Change{New: v.Interface()}
	}
	return changes
}
