package reconcile

import (
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

func rrset(name, recordType string, ttl *int, records ...dns.Record) dns.RRSet {
	return dns.RRSet{Name: name, Type: recordType, TTL: ttl, Records: records}
}

func active(content string) dns.Record   { return dns.Record{Content: content} }
func disabled(content string) dns.Record { return dns.Record{Content: content, Disabled: true} }

func TestDiffRRSets(t *testing.T) {
	const www = "www.example.com."

	tests := []struct {
		name      string
		want      dns.RRSet
		have      []dns.RRSet
		wantDrift Drift
		wantOld   *RRSetState
		wantNew   *RRSetState
	}{
		{
			name:      "up to date",
			want:      rrset(www, "A", intPtr(300), active("1.1.1.1")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"))},
			wantDrift: DriftNone,
		},
		{
			name:      "no ttl opinion",
			want:      rrset(www, "A", nil, active("1.1.1.1")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"))},
			wantDrift: DriftNone,
		},
		{
			name:      "ttl only",
			want:      rrset(www, "A", intPtr(600), active("1.1.1.1")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"))},
			wantDrift: DriftTTL,
			wantOld:   &RRSetState{TTL: intPtr(300)},
			wantNew:   &RRSetState{TTL: intPtr(600)},
		},
		{
			name:      "new record",
			want:      rrset(www, "A", intPtr(300), active("1.1.1.1"), active("2.2.2.2")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"))},
			wantDrift: DriftRecords,
			wantOld:   &RRSetState{Records: map[string]*bool{"2.2.2.2": nil}},
			wantNew:   &RRSetState{Records: map[string]*bool{"2.2.2.2": boolPtr(true)}},
		},
		{
			name:      "status change",
			want:      rrset(www, "A", intPtr(300), disabled("1.1.1.1")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"))},
			wantDrift: DriftRecords,
			wantOld:   &RRSetState{Records: map[string]*bool{"1.1.1.1": boolPtr(true)}},
			wantNew:   &RRSetState{Records: map[string]*bool{"1.1.1.1": boolPtr(false)}},
		},
		{
			name:      "ttl and records",
			want:      rrset(www, "A", intPtr(60), active("2.2.2.2")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"))},
			wantDrift: DriftTTLAndRecords,
			wantOld:   &RRSetState{TTL: intPtr(300), Records: map[string]*bool{"2.2.2.2": nil}},
			wantNew:   &RRSetState{TTL: intPtr(60), Records: map[string]*bool{"2.2.2.2": boolPtr(true)}},
		},
		{
			name:      "new rrset",
			want:      rrset(www, "AAAA", intPtr(300), active("::1")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"))},
			wantDrift: DriftNew,
			wantNew:   &RRSetState{TTL: intPtr(300), Records: map[string]*bool{"::1": boolPtr(true)}},
		},
		{
			name:      "stale live records are kept",
			want:      rrset(www, "A", intPtr(300), active("1.1.1.1")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), active("1.1.1.1"), active("9.9.9.9"))},
			wantDrift: DriftNone,
		},
		{
			name:      "exact match preferred over status change",
			want:      rrset(www, "A", intPtr(300), active("1.1.1.1")),
			have:      []dns.RRSet{rrset(www, "A", intPtr(300), disabled("1.1.1.1"), active("1.1.1.1"))},
			wantDrift: DriftNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiffRRSets(logr.Discard(), []dns.RRSet{tt.want}, tt.have)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 result, got %d", len(got))
			}
			d := got[0]
			if d.Drift != tt.wantDrift {
				t.Errorf("drift = %s, want %s", d.Drift, tt.wantDrift)
			}
			if diff := cmp.Diff(tt.wantOld, d.Old); diff != "" {
				t.Errorf("old mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantNew, d.New); diff != "" {
				t.Errorf("new mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRRSetDiffChange(t *testing.T) {
	d := RRSetDiff{Drift: DriftNew, New: &RRSetState{TTL: intPtr(300)}}

	c := d.Change()
	if c.Old != nil {
		t.Errorf("expected untyped nil old side, got %#v", c.Old)
	}
	if c.New == nil {
		t.Error("expected new side")
	}
}

func TestDiffRRSets_DuplicateKey(t *testing.T) {
	const mail = "mail.example.com."
	want := []dns.RRSet{
		rrset(mail, "A", nil, active("2.2.2.2")),
		rrset(mail, "A", nil, active("3.3.3.3")),
	}

	_, err := DiffRRSets(logr.Discard(), want, nil)
	var dup *DuplicateRRSetError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRRSetError, got %v", err)
	}
	if dup.Key != "mail.example.com._A" {
		t.Errorf("expected key mail.example.com._A, got %q", dup.Key)
	}
}
