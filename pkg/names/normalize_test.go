package names

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Bill Clinton", []string{"bill", "clinton"}},
		{"punctuation", "O'Brien, James R.", []string{"o", "brien", "james", "r"}},
		{"collapsed whitespace", "  Jeffrey   Epstein ", []string{"jeffrey", "epstein"}},
		{"hyphenated", "Mary-Jane Watson", []string{"mary", "jane", "watson"}},
		{"empty", "   ", nil},
		{"symbols only", "!!!", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Normalize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	first := NormalizeString("William  Jefferson-Clinton")
	second := NormalizeString("William  Jefferson-Clinton")
	if first != second {
		t.Fatalf("normalization not deterministic: %q vs %q", first, second)
	}
}

func TestDictionaryGroups(t *testing.T) {
	dict := Default()

	if got := dict.Group("bill"); got != "william" {
		t.Fatalf("expected 'bill' to resolve to 'william', got %q", got)
	}
	if got := dict.Group("william"); got != "william" {
		t.Fatalf("expected 'william' to resolve to itself, got %q", got)
	}
	if dict.Group("bill") != dict.Group("billy") {
		t.Fatal("expected 'bill' and 'billy' to share a group")
	}
}

func TestDictionaryConstructionIsDeterministic(t *testing.T) {
	// Several variants appear under more than one formal name; the
	// winning group must not depend on map iteration order.
	reference := Default()
	contested := []string{"al", "ted", "chris", "harry", "hal", "sandra", "alex", "sasha"}

	for i := 0; i < 100; i++ {
		dict := Default()
		for _, token := range contested {
			if got, want := dict.Group(token), reference.Group(token); got != want {
				t.Fatalf("Group(%q) changed between constructions: %q vs %q", token, got, want)
			}
		}
	}
}

func TestDictionaryCollisionRules(t *testing.T) {
	dict := Default()

	// A contested variant resolves to the alphabetically first formal
	// name that lists it.
	if got := dict.Group("al"); got != "albert" {
		t.Fatalf("expected 'al' to resolve to 'albert', got %q", got)
	}
	if got := dict.Group("ted"); got != "edward" {
		t.Fatalf("expected 'ted' to resolve to 'edward', got %q", got)
	}
	if got := dict.Group("harry"); got != "harold" {
		t.Fatalf("expected 'harry' to resolve to 'harold', got %q", got)
	}

	// A formal name keeps itself as group even when another formal
	// lists it as a variant.
	if got := dict.Group("sandra"); got != "sandra" {
		t.Fatalf("expected formal 'sandra' to resolve to itself, got %q", got)
	}
}

func TestDictionaryTotalFunction(t *testing.T) {
	dict := Default()

	if got := dict.Group("xavier"); got != "xavier" {
		t.Fatalf("unknown token should be its own group, got %q", got)
	}
	if dict.Known("xavier") {
		t.Fatal("'xavier' should not be a known nickname token")
	}
}

func TestDictionaryExtend(t *testing.T) {
	base := Default()
	extended := base.Extend(map[string][]string{
		"maximilian": {"max"},
	})

	if got := extended.Group("max"); got != "maximilian" {
		t.Fatalf("extended dictionary should map 'max' to 'maximilian', got %q", got)
	}
	if base.Known("max") {
		t.Fatal("extending must not mutate the base dictionary")
	}
	if got := extended.Group("bill"); got != "william" {
		t.Fatalf("extension should preserve built-in groups, got %q", got)
	}
}
