package reconcile

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// Output formats accepted by WriteOutcomes.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatOutcome returns a human-readable string representation of an Outcome.
func FormatOutcome(o Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Zone %s [%s]\n", o.Name, o.Result)
	fmt.Fprintf(&b, "  %s\n", o.Comment)

	// Zone changes
	if len(o.Changes) > 0 {
		fmt.Fprintf(&b, "  Changes:\n")
		for _, key := range sortedKeys(o.Changes) {
			c := o.Changes[key]
			fmt.Fprintf(&b, "    %s: %s -> %s\n", key, formatSide(c.Old), formatSide(c.New))
		}
	}

	// RRSet changes
	if len(o.RRSetChanges) > 0 {
		fmt.Fprintf(&b, "  RRSet changes:\n")
		for _, name := range sortedKeys(o.RRSetChanges) {
			fmt.Fprintf(&b, "    %s:\n", name)
			for _, c := range o.RRSetChanges[name] {
				fmt.Fprintf(&b, "      - %s -> %s\n", formatSide(c.Old), formatSide(c.New))
			}
		}
	}

	return b.String()
}

// WriteOutcomes renders outcomes to w in the given format.
func WriteOutcomes(w io.Writer, format string, outcomes []Outcome) error {
	switch format {
	case "", FormatText:
		for _, o := range outcomes {
			if _, err := io.WriteString(w, FormatOutcome(o)); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(outcomes); err != nil {
			return fmt.Errorf("encoding outcomes: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcomes); err != nil {
			return fmt.Errorf("encoding outcomes: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func formatSide(v any) string {
	switch x := v.(type) {
	case nil:
		return "<absent>"
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	case *RRSetState:
		return formatState(x)
	case []dns.RRSet:
		names := make([]string, 0, len(x))
		for _, s := range x {
			names = append(names, s.Key())
		}
		return "[" + strings.Join(names, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatState(s *RRSetState) string {
	var parts []string
	if s.TTL != nil {
		parts = append(parts, fmt.Sprintf("ttl=%d", *s.TTL))
	}
	for _, content := range sortedKeys(s.Records) {
		state := "<absent>"
		if active := s.Records[content]; active != nil {
			state = "active"
			if !*active {
				state = "disabled"
			}
		}
		parts = append(parts, fmt.Sprintf("%s=%s", content, state))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
