package messages

import (
	"errors"
	"testing"
)

func TestDefault_RendersAllKeys(t *testing.T) {
	c := MustDefault()
	if len(c.Keys()) < 20 {
		t.Fatalf("expected full catalog, got %d keys", len(c.Keys()))
	}
	for _, key := range c.Keys() {
		if got := c.Text(key); got == "" || got == string(key) {
			t.Errorf("key %q rendered %q", key, got)
		}
	}
}

func TestRender_Parameters(t *testing.T) {
	c := MustDefault()

	cases := []struct {
		key  Key
		args Args
		want string
	}{
		{NoFields, nil, "Please select at least one field to generate the document."},
		{GenericFailure, nil, "An unexpected error occurred while generating the document."},
		{LookupFailed, Args{"error": errors.New("Server error: 500")}, "Failed to fetch candidate profiles: Server error: 500"},
		{Success, Args{"step": "Reentry Care Plan", "candidate": "O'Brien & Sons"}, "Successfully generated Reentry Care Plan document for O'Brien & Sons!"},
		{ProfileMultiple, Args{"count": 3}, "Select Correct Profile (3 found)"},
		{ProfileSingle, Args{"display_text": "John Doe (M1)"}, "Single profile found and selected: John Doe (M1)"},
	}
	for _, tc := range cases {
		if got := c.Render(tc.key, tc.args); got != tc.want {
			t.Errorf("Render(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestRender_UnknownKey(t *testing.T) {
	if got := MustDefault().Text(Key("nope")); got != "nope" {
		t.Fatalf("got %q", got)
	}
	var nilCatalog *Catalog
	if got := nilCatalog.Text(NoFields); got != string(NoFields) {
		t.Fatalf("nil catalog got %q", got)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("")); err == nil {
		t.Fatalf("expected empty catalog error")
	}
	if _, err := Parse([]byte("a: [")); err == nil {
		t.Fatalf("expected YAML error")
	}
	if _, err := Parse([]byte(`broken: "{{ unclosed"`)); err == nil {
		t.Fatalf("expected template error")
	}
}
