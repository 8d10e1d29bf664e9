package dns

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ChangeType is the mutation verb attached to an rrset in a patch.
type ChangeType string

const (
	// ChangeTypeReplace overwrites the entire record list of an rrset.
	ChangeTypeReplace ChangeType = "REPLACE"
	// ChangeTypeDelete removes the rrset.
	ChangeTypeDelete ChangeType = "DELETE"
)

// Record is a single resource record. Content is opaque.
type Record struct {
	Content  string `json:"content"`
	Disabled bool   `json:"disabled"`
}

// RRSet holds all records of one name and type.
type RRSet struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	TTL     *int     `json:"ttl,omitempty"`
	Records []Record `json:"records"`
}

// Key returns the "{name}_{type}" identity of the rrset.
func (s RRSet) Key() string {
	return RRSetKey(s.Name, s.Type)
}

// Zone is a snapshot of a zone as returned by the API.
// Attributes holds every scalar and string-list attribute of the zone;
// rrsets are kept separately.
type Zone struct {
	Name       string
	Attributes map[string]Value
	RRSets     []RRSet
}

// FindRRSet returns the rrset matching name and type, if any.
func (z *Zone) FindRRSet(name, recordType string) (RRSet, bool) {
	for _, s := range z.RRSets {
		if s.Name == name && s.Type == recordType {
			return s, true
		}
	}
	return RRSet{}, false
}

// UnmarshalJSON decodes an API zone object. Attributes that cannot be
// represented as a Value (nested objects, null) are skipped.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var typed struct {
		Name   string  `json:"name"`
		RRSets []RRSet `json:"rrsets"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return fmt.Errorf("decode zone: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode zone attributes: %w", err)
	}

	attrs := make(map[string]Value, len(raw))
	for key, msg := range raw {
		if key == "name" || key == "rrsets" {
			continue
		}
		v, ok := valueFromJSON(msg)
		if !ok {
			continue
		}
		attrs[key] = v
	}

	z.Name = typed.Name
	z.RRSets = typed.RRSets
	z.Attributes = attrs
	return nil
}

// RRSetPatch is one rrset entry of a mutation payload.
type RRSetPatch struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	ChangeType ChangeType `json:"changetype,omitempty"`
	TTL        *int       `json:"ttl,omitempty"`
	Records    []Record   `json:"records,omitempty"`
}

// MarshalJSON always emits "records", as an empty list when there are none,
// except on a DELETE entry.
func (p RRSetPatch) MarshalJSON() ([]byte, error) {
	type plain RRSetPatch
	if p.ChangeType == ChangeTypeDelete {
		return json.Marshal(plain(p))
	}
	records := p.Records
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(struct {
		plain
		Records []Record `json:"records"`
	}{plain: plain(p), Records: records})
}

// ZonePayload is the wire body of a zone create or patch call.
// Attributes are flattened next to "rrsets". A patch payload (no Name)
// always carries "rrsets", even when empty; a create payload omits an
// empty list.
type ZonePayload struct {
	Name       string
	Attributes map[string]Value
	RRSets     []RRSetPatch
}

// MarshalJSON renders the payload as a single flat JSON object.
func (p *ZonePayload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Attributes)+2)
	for k, v := range p.Attributes {
		out[k] = v.Interface()
	}
	if p.Name != "" {
		out["name"] = p.Name
		if len(p.RRSets) > 0 {
			out["rrsets"] = p.RRSets
		}
		return json.Marshal(out)
	}
	rrsets := p.RRSets
	if rrsets == nil {
		rrsets = []RRSetPatch{}
	}
	out["rrsets"] = rrsets
	return json.Marshal(out)
}

// AttributeKeys returns the payload's attribute names in sorted order.
func (p *ZonePayload) AttributeKeys() []string {
	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
