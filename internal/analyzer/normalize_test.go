package analyzer

import "testing"

func TestNormalizeVendorName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Acme Corp", "acme"},
		{"ACME Corporation", "acme"},
		{"Acme Corp.", "acme"},
		{"Acme, Inc.", "acme"},
		{"  Global   Tech Solutions LLC ", "global tech solutions"},
		{"Premium Office Co", "premium office"},
		{"Café Limited", "café"},
		{"Incorporated Widgets", "incorporated widgets"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeVendorName(tt.name); got != tt.want {
				t.Errorf("NormalizeVendorName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestNormalizeVendorName_Idempotent(t *testing.T) {
	inputs := []string{
		"Acme Corp.",
		"The Widget Company, Ltd",
		"  spaced\tout\nvendor  ",
		"co co co",
		"Smith & Sons",
	}
	for _, in := range inputs {
		once := NormalizeVendorName(in)
		if twice := NormalizeVendorName(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"", "", 0},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := LevenshteinDistance(tt.b, tt.a); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d (symmetric)", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestStringSimilarity(t *testing.T) {
	if got := StringSimilarity("", ""); got != 1 {
		t.Errorf("expected 1 for two empty strings, got %f", got)
	}
	if got := StringSimilarity("acme", "acme"); got != 1 {
		t.Errorf("expected 1 for identical strings, got %f", got)
	}
	if got := StringSimilarity("abc", "xyz"); got != 0 {
		t.Errorf("expected 0 for disjoint strings, got %f", got)
	}
	if got := StringSimilarity("kitten", "sitting"); !approxEqual(got, 4.0/7.0) {
		t.Errorf("expected 4/7, got %f", got)
	}
}

func TestDuplicateConfidence_Bounds(t *testing.T) {
	identical := duplicateConfidence([]string{"Acme", "Acme"})
	if identical != 0.95 {
		t.Errorf("expected confidence capped at 0.95, got %f", identical)
	}

	disjoint := duplicateConfidence([]string{"abc", "xyz"})
	if disjoint != 0.5 {
		t.Errorf("expected floor confidence 0.5, got %f", disjoint)
	}
}
