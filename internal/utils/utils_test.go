package utils

import "testing"

// checks the full validation chain the engine applies to typed prefixes
func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input       string
		valid       bool
		description string
	}{
		{"hello", true, "Plain word"},
		{"Hello", true, "Capitalized word"},
		{"word2vec", true, "Word with digits"},
		{"user-name", true, "Hyphenated word"},
		{"under_score", true, "Underscored word"},
		{"", false, "Empty input"},
		{"1234", false, "Digits only"},
		{"7", false, "Single digit"},
		{")))", false, "Special characters"},
		{"email@example.com", false, "At sign counts as special"},
		{"aaa", false, "Repeated key noise"},
		{"wwww", false, "Longer repeated key noise"},
		{"aa", true, "Two repeats are allowed"},
		{"a", true, "Single letter"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := IsValidInput(tc.input); got != tc.valid {
				t.Errorf("IsValidInput(%q) = %v, want %v", tc.input, got, tc.valid)
			}
		})
	}
}

func TestIsRepetitive(t *testing.T) {
	testCases := []struct {
		input       string
		repetitive  bool
		description string
	}{
		{"", false, "Empty"},
		{"a", false, "One char"},
		{"aa", false, "Two chars never count"},
		{"aaa", true, "Three repeats"},
		{"aab", false, "Broken run"},
		{"zzzzzz", true, "Long run"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := IsRepetitive(tc.input); got != tc.repetitive {
				t.Errorf("IsRepetitive(%q) = %v, want %v", tc.input, got, tc.repetitive)
			}
		})
	}
}

func TestHasPrefixIgnoreCase(t *testing.T) {
	testCases := []struct {
		s           string
		prefix      string
		want        bool
		description string
	}{
		{"Apple", "app", true, "Mixed case word"},
		{"apple", "APP", true, "Upper case prefix"},
		{"apple", "apple", true, "Equal strings"},
		{"app", "apple", false, "Prefix longer than word"},
		{"banana", "app", false, "No match"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := HasPrefixIgnoreCase(tc.s, tc.prefix); got != tc.want {
				t.Errorf("HasPrefixIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.prefix, got, tc.want)
			}
		})
	}
}

// first-letter capitalization is the only case restoration the engine does
func TestCapitalizeFirst(t *testing.T) {
	testCases := []struct {
		input       string
		want        string
		description string
	}{
		{"apple", "Apple", "Plain word"},
		{"Apple", "Apple", "Already capitalized"},
		{"a", "A", "Single letter"},
		{"", "", "Empty string"},
		{"état", "État", "Multi-byte first rune"},
		{"123abc", "123abc", "Digit has no upper case"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := CapitalizeFirst(tc.input); got != tc.want {
				t.Errorf("CapitalizeFirst(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFirstRuneUpper(t *testing.T) {
	testCases := []struct {
		input string
		want  bool
	}{
		{"Apple", true},
		{"apple", false},
		{"État", true},
		{"état", false},
		{"", false},
		{"1up", false},
	}

	for _, tc := range testCases {
		if got := FirstRuneUpper(tc.input); got != tc.want {
			t.Errorf("FirstRuneUpper(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{65535, "65,535"},
		{1234567, "1,234,567"},
	}

	for _, tc := range testCases {
		if got := FormatWithCommas(tc.n); got != tc.want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestCreateRankList(t *testing.T) {
	ranks := CreateRankList(3)
	want := []uint16{1, 2, 3}
	if len(ranks) != len(want) {
		t.Fatalf("expected %d ranks, got %d", len(want), len(ranks))
	}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("rank[%d] = %d, want %d", i, ranks[i], want[i])
		}
	}

	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("expected empty rank list for count 0, got %v", got)
	}
	if got := CreateRankList(-1); len(got) != 0 {
		t.Errorf("expected empty rank list for negative count, got %v", got)
	}
}
