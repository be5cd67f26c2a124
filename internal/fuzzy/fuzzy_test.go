//nolint:testpackage // using package name 'fuzzy' to access unexported fields for testing
package fuzzy

import (
	"reflect"
	"testing"
)

func TestMatcher_FindBest(t *testing.T) {
	matcher := NewMatcher(2)

	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   string
	}{
		{"exact match excluded", "meow", []string{"meow", "purr"}, ""},
		{"simple typo", "mewo", []string{"meow", "purr", "hiss"}, "meow"},
		{"missing letter", "srver", []string{"server", "serve", "status"}, "server"},
		{"no good match", "xyz", []string{"meow", "purr"}, ""},
		{"too short", "m", []string{"me", "meow"}, ""},
		{"case insensitive", "MEWO", []string{"meow"}, "meow"},
		{"longer prefix wins tie", "stat", []string{"sat", "star"}, "star"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.FindBest(tt.input, tt.candidates); got != tt.expected {
				t.Errorf("FindBest(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatcher_Distance(t *testing.T) {
	m := NewMatcher(10)
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"meow", "meow", 0},
		{"group", "groups", 1},
	}
	for _, tt := range tests {
		if got := m.distance(tt.a, tt.b); got != tt.want {
			t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	if got := NewMatcher(1).distance("kitten", "sitting"); got != 2 {
		t.Errorf("Expected early termination to report maxDistance+1, got %d", got)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"start", "stop", "status", "restart"}

	got := Suggest("stat", candidates, 2, 2)
	want := []string{"start", "status"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}

	if got := Suggest("zzzzzz", candidates, 2, 3); len(got) != 0 {
		t.Errorf("Expected no suggestions, got %v", got)
	}
}
