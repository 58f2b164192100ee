package upstream

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		aliases []string
		want    string
		exists  bool
	}{
		{name: "primary alias", json: `{"dato":"2025-06-16"}`, aliases: menuDateAliases, want: "2025-06-16", exists: true},
		{name: "fallback alias", json: `{"date":"2025-06-16"}`, aliases: menuDateAliases, want: "2025-06-16", exists: true},
		{name: "priority wins over order in document", json: `{"date":"b","dato":"a"}`, aliases: menuDateAliases, want: "a", exists: true},
		{name: "capitalized alias", json: `{"Dato":"x"}`, aliases: menuDateAliases, want: "x", exists: true},
		{name: "present but empty still wins", json: `{"Navn":"","name":"Kylling"}`, aliases: menuNameAliases, want: "", exists: true},
		{name: "no alias present", json: `{"day":"x"}`, aliases: menuDateAliases, exists: false},
		{name: "not an object", json: `["dato"]`, aliases: menuDateAliases, exists: false},
		{name: "group id variants", json: `{"KundegruppeId":252}`, aliases: groupIDAliases, want: "252", exists: true},
		{name: "appointment description", json: `{"description":"Forældremøde"}`, aliases: apptDescribeAliases, want: "Forældremøde", exists: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lookup(gjson.Parse(tt.json), tt.aliases)
			if got.Exists() != tt.exists {
				t.Fatalf("exists = %v, want %v", got.Exists(), tt.exists)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestListOf(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantLen int
		wantOK  bool
	}{
		{name: "bare array", json: `[{"id":1},{"id":2}]`, wantLen: 2, wantOK: true},
		{name: "wrapped array", json: `{"groups":[{"id":1}]}`, wantLen: 1, wantOK: true},
		{name: "wrapped non-array", json: `{"groups":{"id":1}}`, wantOK: false},
		{name: "scalar", json: `42`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := listOf(gjson.Parse(tt.json), groupListAliases)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && len(got.Array()) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got.Array()), tt.wantLen)
			}
		})
	}
}
