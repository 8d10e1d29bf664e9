package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

func TestBuildPatch_TTLFill(t *testing.T) {
	diff := ZoneDiff{
		RRSets: []RRSetDiff{
			{
				Want:  rrset("a.example.com.", "A", intPtr(60), active("1.1.1.1")),
				Have:  &dns.RRSet{TTL: intPtr(300)},
				Drift: DriftTTL,
			},
			{
				Want:  rrset("b.example.com.", "A", nil, active("2.2.2.2")),
				Have:  &dns.RRSet{TTL: intPtr(300)},
				Drift: DriftRecords,
			},
			{
				Want:  rrset("c.example.com.", "A", nil, active("3.3.3.3")),
				Drift: DriftNew,
			},
			{
				Want:  rrset("d.example.com.", "A", nil, active("4.4.4.4")),
				Have:  &dns.RRSet{TTL: intPtr(300)},
				Drift: DriftNone,
			},
		},
	}

	got := BuildPatch(diff, 1800)

	want := []dns.RRSetPatch{
		{Name: "a.example.com.", Type: "A", ChangeType: dns.ChangeTypeReplace, TTL: intPtr(60), Records: []dns.Record{active("1.1.1.1")}},
		{Name: "b.example.com.", Type: "A", ChangeType: dns.ChangeTypeReplace, TTL: intPtr(300), Records: []dns.Record{active("2.2.2.2")}},
		{Name: "c.example.com.", Type: "A", ChangeType: dns.ChangeTypeReplace, TTL: intPtr(1800), Records: []dns.Record{active("3.3.3.3")}},
	}
	if d := cmp.Diff(want, got.RRSets); d != "" {
		t.Errorf("rrsets mismatch (-want +got):\n%s", d)
	}
}

func TestBuildPatch_RepeatedKeyKeepsFirst(t *testing.T) {
	diff := ZoneDiff{
		RRSets: []RRSetDiff{
			{Want: rrset("mail.example.com.", "A", intPtr(60), active("2.2.2.2")), Drift: DriftNew},
			{Want: rrset("mail.example.com.", "A", intPtr(60), active("3.3.3.3")), Drift: DriftNew},
		},
	}

	got := BuildPatch(diff, DefaultTTL)

	want := []dns.RRSetPatch{
		{Name: "mail.example.com.", Type: "A", ChangeType: dns.ChangeTypeReplace, TTL: intPtr(60), Records: []dns.Record{active("2.2.2.2")}},
	}
	if d := cmp.Diff(want, got.RRSets); d != "" {
		t.Errorf("rrsets mismatch (-want +got):\n%s", d)
	}
}

func TestBuildPatch_AttributesOnly(t *testing.T) {
	got := BuildPatch(ZoneDiff{Attributes: map[string]dns.Value{AttrKind: dns.StringValue("Master")}}, DefaultTTL)

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"kind":"Master","rrsets":[]}` {
		t.Errorf("unexpected payload: %s", data)
	}
}

func TestBuildCreatePayload(t *testing.T) {
	want := map[string]dns.Value{
		AttrKind:        dns.StringValue("Native"),
		AttrNameservers: dns.ListValue("ns1.example.com."),
		AttrRRSets: dns.RecordListValue([]dns.RRSet{
			rrset("www.example.com.", "A", nil, active("1.1.1.1")),
		}),
	}

	got := BuildCreatePayload("example.com.", want, 3600)

	if got.Name != "example.com." {
		t.Errorf("expected zone name, got %q", got.Name)
	}
	if _, ok := got.Attributes[AttrRRSets]; ok {
		t.Error("rrsets leaked into attributes")
	}
	wantRRSets := []dns.RRSetPatch{
		{Name: "www.example.com.", Type: "A", TTL: intPtr(3600), Records: []dns.Record{active("1.1.1.1")}},
	}
	if d := cmp.Diff(wantRRSets, got.RRSets); d != "" {
		t.Errorf("rrsets mismatch (-want +got):\n%s", d)
	}
}

func TestBuildCreatePayload_KindOnly(t *testing.T) {
	got := BuildCreatePayload("example.com.", map[string]dns.Value{AttrKind: dns.StringValue("Master")}, DefaultTTL)

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"kind":"Master","name":"example.com."}` {
		t.Errorf("unexpected payload: %s", data)
	}
}

func TestBuildDeletePayload(t *testing.T) {
	got := BuildDeletePayload([]dns.RRSet{rrset("www.example.com.", "A", intPtr(300), active("1.1.1.1"))})

	want := []dns.RRSetPatch{{Name: "www.example.com.", Type: "A", ChangeType: dns.ChangeTypeDelete}}
	if d := cmp.Diff(want, got.RRSets); d != "" {
		t.Errorf("rrsets mismatch (-want +got):\n%s", d)
	}
}
