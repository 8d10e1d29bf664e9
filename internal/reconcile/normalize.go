package reconcile

import (
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// NormalizeRRSet converts a desired rrset into the API's shape: canonical
// name, explicit disabled flag on every record, and the TTL as given.
func NormalizeRRSet(zone string, spec RRSetSpec) dns.RRSet {
	records := make([]dns.Record, 0, len(spec.Records))
	for _, r := range spec.Records {
		rec := dns.Record{Content: r.Content}
		if r.Disabled != nil {
			rec.Disabled = *r.Disabled
		}
		records = append(records, rec)
	}

	out := dns.RRSet{
		Name:    dns.CanonicalizeRecord(zone, spec.Name),
		Type:    strings.ToUpper(spec.Type),
		Records: records,
	}
	if spec.TTL != nil {
		ttl := *spec.TTL
		out.TTL = &ttl
	}
	return out
}

// NormalizeRRSets applies NormalizeRRSet to every spec, preserving order.
func NormalizeRRSets(zone string, specs []RRSetSpec) []dns.RRSet {
	out := make([]dns.RRSet, 0, len(specs))
	for _, s := range specs {
		out = append(out, NormalizeRRSet(zone, s))
	}
	return out
}

// normalizeAttributes copies the desired attributes, capitalizing kind and
// attaching normalized rrsets under AttrRRSets when any are given.
func normalizeAttributes(zone string, spec ZoneSpec) map[string]dns.Value {
	attrs := maps.Clone(spec.Attributes)
	if attrs == nil {
		attrs = make(map[string]dns.Value)
	}
	if v, ok := attrs[AttrKind]; ok && v.Kind() == dns.KindString {
		attrs[AttrKind] = dns.StringValue(capitalize(v.Str()))
	}
	if len(spec.RRSets) > 0 {
		attrs[AttrRRSets] = dns.RecordListValue(NormalizeRRSets(zone, spec.RRSets))
	}
	return attrs
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
