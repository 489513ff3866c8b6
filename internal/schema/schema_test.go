package schema

import (
	"sort"
	"strings"
	"testing"
)

func Test_New_Cases(t *testing.T) {
	tests := []struct {
		name        string
		types       map[string]Kind
		tags        []string
		errContains string
	}{
		{
			name:  "string tags accepted",
			types: map[string]Kind{"MODEL": String, "LINEV": Float},
			tags:  []string{"MODEL"},
		},
		{
			name:        "numeric tag rejected",
			types:       map[string]Kind{"LINEV": Float},
			tags:        []string{"LINEV"},
			errContains: "must be string",
		},
		{
			name:        "untyped tag rejected",
			types:       map[string]Kind{},
			tags:        []string{"MODEL"},
			errContains: "has no type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.types, nil, tt.tags)
			if tt.errContains == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if s == nil {
					t.Fatal("expected non-nil schema")
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func Test_Default_DoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Default() panicked: %v", r)
		}
	}()
	_ = Default()
}

func Test_Route_Cases(t *testing.T) {
	s := Default()

	tests := []struct {
		key  string
		want Route
	}{
		{key: "APC", want: Drop},
		{key: "END APC", want: Drop},
		{key: "HOSTNAME", want: Drop},
		{key: "MASTER", want: Drop},
		{key: "MASTERUPD", want: Drop},
		{key: "SOMETHING_NEW", want: Drop},
		{key: "MODEL", want: Tag},
		{key: "STATUS", want: Tag},
		{key: "UPSNAME", want: Tag},
		{key: "FIRMWARE", want: Tag},
		{key: "LINEV", want: Field},
		{key: "NOMPOWER", want: Field},
		{key: "SELFTEST", want: Field},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := s.Route(tt.key); got != tt.want {
				t.Errorf("Route(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func Test_RemovalSet(t *testing.T) {
	want := []string{
		"APC", "CABLE", "DATE", "DRIVER", "END APC", "HOSTNAME",
		"MASTER", "MASTERUPD", "STARTTIME", "UPSMODE", "VERSION",
	}

	got := append([]string(nil), removeKeys...)
	sort.Strings(got)

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("removeKeys = %v, want %v", got, want)
	}
}

func Test_RemovedKeysAreNeverTyped(t *testing.T) {
	for _, key := range removeKeys {
		if _, ok := dataTypes[key]; ok {
			t.Errorf("removed key %q also appears in the type table", key)
		}
	}
}

func Test_Kind_Convert_Cases(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		raw     string
		want    any
		wantErr bool
	}{
		{name: "string kept", kind: String, raw: " ONLINE ", want: "ONLINE"},
		{name: "int", kind: Int, raw: "865", want: int64(865)},
		{name: "negative int", kind: Int, raw: "-1", want: int64(-1)},
		{name: "int from decimal truncates", kind: Int, raw: "12.9", want: int64(12)},
		{name: "int garbage", kind: Int, raw: "N/A", wantErr: true},
		{name: "int NaN", kind: Int, raw: "NaN", wantErr: true},
		{name: "float", kind: Float, raw: "230.0", want: 230.0},
		{name: "float from int text", kind: Float, raw: "5", want: 5.0},
		{name: "float garbage", kind: Float, raw: "No alarm", wantErr: true},
		{name: "float NaN", kind: Float, raw: "NaN", wantErr: true},
		{name: "float Inf", kind: Float, raw: "Inf", wantErr: true},
		{name: "float negative Inf", kind: Float, raw: "-Inf", wantErr: true},
		{name: "int Inf", kind: Int, raw: "+Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.kind.Convert(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %#v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func Test_TagKeys_Sorted(t *testing.T) {
	got := Default().TagKeys()
	want := []string{"APCMODEL", "FIRMWARE", "MODEL", "SERIALNO", "STATUS", "UPSNAME"}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("TagKeys() = %v, want %v", got, want)
	}
}
