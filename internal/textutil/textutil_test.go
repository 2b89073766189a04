package textutil

import "testing"

func TestHasLetter(t *testing.T) {
	testCases := []struct {
		in       string
		expected bool
	}{
		{"hello", true},
		{"h3llo", true},
		{"123", false},
		{"!?", false},
		{"", false},
	}
	for _, tc := range testCases {
		if got := HasLetter(tc.in); got != tc.expected {
			t.Errorf("HasLetter(%q) = %v, want %v", tc.in, got, tc.expected)
		}
	}
}

func TestIsAllUpper(t *testing.T) {
	testCases := []struct {
		in       string
		expected bool
	}{
		{"NASA", true},
		{"NASA2", true},
		{"Nasa", false},
		{"nasa", false},
		{"123", false}, // needs at least one letter
	}
	for _, tc := range testCases {
		if got := IsAllUpper(tc.in); got != tc.expected {
			t.Errorf("IsAllUpper(%q) = %v, want %v", tc.in, got, tc.expected)
		}
	}
}

func TestCapitalize(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"receive", "Receive"},
		{"Receive", "Receive"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := Capitalize(tc.in); got != tc.expected {
			t.Errorf("Capitalize(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}

func TestStartsUpper(t *testing.T) {
	if !StartsUpper("Word") || StartsUpper("word") || StartsUpper("") {
		t.Error("StartsUpper misjudged leading case")
	}
}
