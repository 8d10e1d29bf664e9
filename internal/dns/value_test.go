package dns

import (
	"encoding/json"
	"testing"
)

func TestValueEqual(t *testing.T) {
	ttl := 300
	sets := []RRSet{{Name: "www.example.com.", Type: "A", TTL: &ttl, Records: []Record{{Content: "1.1.1.1"}}}}

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same string", StringValue("Native"), StringValue("Native"), true},
		{"different string", StringValue("Native"), StringValue("Master"), false},
		{"bool", BoolValue(true), BoolValue(true), true},
		{"int", IntValue(1), IntValue(2), false},
		{"list in order", ListValue("a", "b"), ListValue("a", "b"), true},
		{"list reordered", ListValue("a", "b"), ListValue("b", "a"), false},
		{"kinds differ", StringValue("true"), BoolValue(true), false},
		{"record lists", RecordListValue(sets), RecordListValue(sets), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueFromAny(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		wantKind Kind
		wantErr  bool
	}{
		{"string", "Master", KindString, false},
		{"bool", true, KindBool, false},
		{"int", 42, KindInt, false},
		{"integral float", float64(3600), KindInt, false},
		{"json number", json.Number("7"), KindInt, false},
		{"string slice", []string{"a"}, KindList, false},
		{"any slice", []any{"a", "b"}, KindList, false},
		{"fraction", 1.5, KindInvalid, true},
		{"mixed slice", []any{"a", 1}, KindInvalid, true},
		{"map", map[string]any{"a": 1}, KindInvalid, true},
		{"nil", nil, KindInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueFromAny(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValueFromAny(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if v.Kind() != tt.wantKind {
				t.Errorf("kind = %s, want %s", v.Kind(), tt.wantKind)
			}
		})
	}
}

func TestValueItemsIsCopy(t *testing.T) {
	v := ListValue("b", "a")
	items := v.Items()
	items[0] = "z"
	if v.Items()[0] != "b" {
		t.Error("Items exposes internal storage")
	}
}

func TestValueMarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Value{
		"kind":    StringValue("Native"),
		"dnssec":  BoolValue(false),
		"masters": ListValue(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"dnssec":false,"kind":"Native","masters":[]}` {
		t.Errorf("unexpected JSON %s", data)
	}
}
