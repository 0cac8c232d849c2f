package match

import (
	"math"
	"slices"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
		{"pricecents", "totalcents", 5},
		{"createdat", "updatedat", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}

			if got := Levenshtein(tt.b, tt.a); got != tt.expected {
				t.Errorf("Levenshtein is not symmetric for %q, %q", tt.a, tt.b)
			}
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	if got := LevenshteinNormalized("", ""); got != 1.0 {
		t.Errorf("empty strings: got %v", got)
	}

	if got := LevenshteinNormalized("abcd", "abcf"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("one substitution in four: got %v", got)
	}
}

func TestTokenizeIdent(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"OrderID", []string{"order", "id"}},
		{"customerName", []string{"customer", "name"}},
		{"XMLParser", []string{"xml", "parser"}},
		{"getHTTPResponse", []string{"get", "http", "response"}},
		{"created_at", []string{"created", "at"}},
		{"", nil},
	}

	for _, tt := range tests {
		if got := TokenizeIdent(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("TokenizeIdent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		in, plain, stripped string
	}{
		{"CustomerID", "customerid", "customer"},
		{"customer_id", "customerid", "customer"},
		{"CreatedAt", "createdat", "created"},
		{"ID", "id", "id"},
		{"Status", "status", "status"},
	}

	for _, tt := range tests {
		if got := NormalizeIdent(tt.in); got != tt.plain {
			t.Errorf("NormalizeIdent(%q) = %q, want %q", tt.in, got, tt.plain)
		}

		if got := NormalizeIdentWithSuffixStrip(tt.in); got != tt.stripped {
			t.Errorf("NormalizeIdentWithSuffixStrip(%q) = %q, want %q", tt.in, got, tt.stripped)
		}
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"FullName", "Email", "ID", "IsActive", "Address"}

	if got := Suggest("FulName", names, 3); !slices.Equal(got, []string{"FullName"}) {
		t.Errorf("Suggest(FulName) = %v", got)
	}

	if got := Suggest("full_name", names, 3); !slices.Equal(got, []string{"FullName"}) {
		t.Errorf("Suggest(full_name) = %v", got)
	}

	if got := Suggest("Zzz", names, 3); len(got) != 0 {
		t.Errorf("Suggest(Zzz) = %v, want none", got)
	}

	if got := Suggest("Adress", names, 0); len(got) != 0 {
		t.Errorf("limit 0 must return nothing, got %v", got)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	ranked := Rank("ab", []string{"ac", "aa", "ab"})

	want := []string{"ab", "aa", "ac"}
	for i, c := range ranked {
		if c.Name != want[i] {
			t.Fatalf("Rank order = %v, want %v", ranked, want)
		}
	}
}
