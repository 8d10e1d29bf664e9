package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/reconcile"
)

// DesiredState is the parsed content of a desired-state file.
type DesiredState struct {
	Zones  []reconcile.ZoneSpec
	RRSets []RRSetGroup
	Absent []AbsentGroup
}

// RRSetGroup lists rrsets to converge within one existing zone.
type RRSetGroup struct {
	Zone   string
	RRSets []reconcile.RRSetSpec
}

// AbsentGroup lists rrsets to remove from one zone.
type AbsentGroup struct {
	Zone   string
	RRSets []reconcile.RRSetRef
}

type stateDoc struct {
	Zones  []zoneDoc   `yaml:"zones"`
	RRSets []groupDoc  `yaml:"rrsets"`
	Absent []absentDoc `yaml:"absent"`
}

type zoneDoc struct {
	Name       string         `yaml:"name"`
	RRSets     []rrsetDoc     `yaml:"rrsets"`
	Attributes map[string]any `yaml:",inline"`
}

type groupDoc struct {
	Zone   string     `yaml:"zone"`
	RRSets []rrsetDoc `yaml:"rrsets"`
}

type absentDoc struct {
	Zone   string   `yaml:"zone"`
	RRSets []refDoc `yaml:"rrsets"`
}

type rrsetDoc struct {
	Name    string      `yaml:"name"`
	Type    string      `yaml:"type"`
	TTL     *int        `yaml:"ttl"`
	Records []recordDoc `yaml:"records"`
}

type refDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// recordDoc accepts either a bare content string or a
// {content, disabled} mapping.
type recordDoc struct {
	Content  string
	Disabled *bool
}

func (r *recordDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&r.Content)
	}
	var m struct {
		Content  string `yaml:"content"`
		Disabled *bool  `yaml:"disabled"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	r.Content, r.Disabled = m.Content, m.Disabled
	return nil
}

// LoadDesiredState reads and validates a desired-state YAML file. All
// validation problems are reported together.
func LoadDesiredState(path string) (*DesiredState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading desired state file: %w", err)
	}

	var doc stateDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing desired state file: %w", err)
	}

	state, errs := doc.convert()
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid desired state file %s: %w", path, utilerrors.NewAggregate(errs))
	}
	return state, nil
}

func (d *stateDoc) convert() (*DesiredState, []error) {
	var errs []error
	state := &DesiredState{}

	for i, z := range d.Zones {
		where := fmt.Sprintf("zones[%d]", i)
		if z.Name == "" {
			errs = append(errs, fmt.Errorf("%s: missing required field 'name'", where))
		}
		spec := reconcile.ZoneSpec{Name: z.Name, Attributes: map[string]dns.Value{}}

		keys := make([]string, 0, len(z.Attributes))
		for k := range z.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !slices.Contains(reconcile.ZoneAttributes, k) {
				errs = append(errs, fmt.Errorf("%s: unknown zone attribute %q", where, k))
				continue
			}
			v, err := dns.ValueFromAny(z.Attributes[k])
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", where, k, err))
				continue
			}
			if k == reconcile.AttrKind && !validKind(v) {
				errs = append(errs, fmt.Errorf("%s.kind: unknown zone kind %q", where, v.String()))
				continue
			}
			spec.Attributes[k] = v
		}

		spec.RRSets, errs = convertRRSets(where, z.Name, z.RRSets, errs)
		state.Zones = append(state.Zones, spec)
	}

	for i, g := range d.RRSets {
		where := fmt.Sprintf("rrsets[%d]", i)
		if g.Zone == "" {
			errs = append(errs, fmt.Errorf("%s: missing required field 'zone'", where))
		}
		group := RRSetGroup{Zone: g.Zone}
		group.RRSets, errs = convertRRSets(where, g.Zone, g.RRSets, errs)
		state.RRSets = append(state.RRSets, group)
	}

	for i, g := range d.Absent {
		where := fmt.Sprintf("absent[%d]", i)
		if g.Zone == "" {
			errs = append(errs, fmt.Errorf("%s: missing required field 'zone'", where))
		}
		group := AbsentGroup{Zone: g.Zone}
		for j, r := range g.RRSets {
			if r.Name == "" || r.Type == "" {
				errs = append(errs, fmt.Errorf("%s.rrsets[%d]: 'name' and 'type' are required", where, j))
				continue
			}
			group.RRSets = append(group.RRSets, reconcile.RRSetRef{Name: r.Name, Type: r.Type})
		}
		state.Absent = append(state.Absent, group)
	}

	return state, errs
}

// convertRRSets validates the rrsets of one zone. Names are compared in
// their qualified, lower-cased form, so "mail" and "MAIL.example.com." in
// zone example.com are the same rrset.
func convertRRSets(where, zone string, docs []rrsetDoc, errs []error) ([]reconcile.RRSetSpec, []error) {
	var out []reconcile.RRSetSpec
	seen := map[string]string{}
	for j, r := range docs {
		at := fmt.Sprintf("%s.rrsets[%d]", where, j)
		if r.Name == "" || r.Type == "" {
			errs = append(errs, fmt.Errorf("%s: 'name' and 'type' are required", at))
			continue
		}
		if r.TTL != nil && *r.TTL <= 0 {
			errs = append(errs, fmt.Errorf("%s: ttl must be positive, got %d", at, *r.TTL))
			continue
		}
		if len(r.Records) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one record is required, list the rrset under 'absent' to delete it", at))
			continue
		}
		key := dns.RRSetKey(dns.CanonicalizeRecord(zone, r.Name), strings.ToUpper(r.Type))
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate rrset %s, already defined at %s", at, key, first))
			continue
		}
		seen[key] = at

		spec := reconcile.RRSetSpec{Name: r.Name, Type: r.Type, TTL: r.TTL}
		for k, rec := range r.Records {
			if rec.Content == "" {
				errs = append(errs, fmt.Errorf("%s.records[%d]: empty content", at, k))
				continue
			}
			spec.Records = append(spec.Records, reconcile.RecordSpec{Content: rec.Content, Disabled: rec.Disabled})
		}
		out = append(out, spec)
	}
	return out, errs
}

func validKind(v dns.Value) bool {
	if v.Kind() != dns.KindString {
		return false
	}
	for _, k := range []string{reconcile.KindNative, reconcile.KindMaster, reconcile.KindSlave, reconcile.KindProducer, reconcile.KindConsumer} {
		if strings.EqualFold(v.Str(), k) {
			return true
		}
	}
	return false
}
