package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

func TestNormalizeRRSet(t *testing.T) {
	off := true
	ttl := 300

	got := NormalizeRRSet("example.com", RRSetSpec{
		Name: "www",
		Type: "a",
		TTL:  &ttl,
		Records: []RecordSpec{
			{Content: "1.1.1.1"},
			{Content: "2.2.2.2", Disabled: &off},
		},
	})

	want := dns.RRSet{
		Name: "www.example.com.",
		Type: "A",
		TTL:  intPtr(300),
		Records: []dns.Record{
			{Content: "1.1.1.1", Disabled: false},
			{Content: "2.2.2.2", Disabled: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeRRSet mismatch (-want +got):\n%s", diff)
	}

	ttl = 600
	if *got.TTL != 300 {
		t.Errorf("normalized TTL aliases the input: got %d", *got.TTL)
	}
}

func TestNormalizeRRSet_ZoneRoot(t *testing.T) {
	got := NormalizeRRSet("example.com.", RRSetSpec{Name: "@", Type: "MX", Records: []RecordSpec{{Content: "10 mail.example.com."}}})

	if got.Name != "example.com." {
		t.Errorf("expected apex name, got %q", got.Name)
	}
	if got.TTL != nil {
		t.Errorf("expected no TTL opinion, got %d", *got.TTL)
	}
}

func TestNormalizeAttributes(t *testing.T) {
	spec := ZoneSpec{
		Name: "example.com",
		Attributes: map[string]dns.Value{
			AttrKind:    dns.StringValue("mASTER"),
			AttrMasters: dns.ListValue("10.0.0.1"),
		},
		RRSets: []RRSetSpec{{Name: "www", Type: "A", Records: []RecordSpec{{Content: "1.1.1.1"}}}},
	}

	got := normalizeAttributes("example.com.", spec)

	if got[AttrKind].Str() != "Master" {
		t.Errorf("expected kind Master, got %q", got[AttrKind].Str())
	}
	if got[AttrRRSets].Kind() != dns.KindRecordList {
		t.Fatalf("expected rrsets as record list, got %s", got[AttrRRSets].Kind())
	}
	if got[AttrRRSets].RRSets()[0].Name != "www.example.com." {
		t.Errorf("expected canonical rrset name, got %q", got[AttrRRSets].RRSets()[0].Name)
	}
	if spec.Attributes[AttrKind].Str() != "mASTER" {
		t.Error("normalizeAttributes modified the caller's attributes")
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"master", "Master"},
		{"NATIVE", "Native"},
		{"Slave", "Slave"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := capitalize(tt.in); got != tt.want {
				t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
