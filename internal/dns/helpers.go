package dns

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// ZoneRoot is the record name that refers to the zone apex.
const ZoneRoot = "@"

// zoneProfile applies the lookup mapping (case folding and Unicode
// normalization) while still accepting underscore labels.
var zoneProfile = idna.New(idna.MapForLookup(), idna.StrictDomainName(false), idna.Transitional(false))

// Canonicalize returns name lower-cased as an FQDN with a trailing dot.
// e.g. "example.com" → "example.com."
// e.g. "Example.COM." → "example.com."
func Canonicalize(name string) string {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

// CanonicalizeRecord qualifies a record name relative to zone.
// e.g. ("example.com", "@") → "example.com."
// e.g. ("example.com", "www") → "www.example.com."
// e.g. ("example.com", "www.example.com") → "www.example.com."
// e.g. ("example.com", "mail.other.org.") → "mail.other.org."
// e.g. ("Example.com", "WWW") → "www.example.com."
func CanonicalizeRecord(zone, name string) string {
	canonZone := Canonicalize(zone)
	name = strings.ToLower(name)
	if name == ZoneRoot || name == "." || name == "" {
		return canonZone
	}
	if strings.HasSuffix(name, ".") {
		return name
	}
	bareZone := strings.TrimSuffix(canonZone, ".")
	if name == bareZone || strings.HasSuffix(name, "."+bareZone) {
		return Canonicalize(name)
	}
	return Canonicalize(name + "." + bareZone)
}

// NormalizeZoneName case-folds the name, converts internationalized labels
// to their ASCII form and canonicalizes the result.
func NormalizeZoneName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty zone name")
	}
	ascii, err := zoneProfile.ToASCII(strings.TrimSuffix(name, "."))
	if err != nil {
		return "", fmt.Errorf("zone name %q: %w", name, err)
	}
	return Canonicalize(ascii), nil
}

// RRSetKey is the identity of an rrset within a zone, rendered as "{name}_{type}".
func RRSetKey(name, recordType string) string {
	return name + "_" + recordType
}
