package language

import (
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes pass through
		{"en", "en"},
		{"EN", "en"},
		// 3-letter codes convert
		{"eng", "en"},
		{"fra", "fr"},
		{"fre", "fr"},
		{"ger", "de"},
		{"jpn", "ja"},
		{"kor", "ko"},
		{"chi", "zh"},
		{"zho", "zh"},
		{"tha", "th"},
		// Word forms
		{"english", "en"},
		{"Chinese", "zh"},
		// Unknown 2-letter passes through
		{"xy", "xy"},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO2(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"fr", "fra"},
		{"fre", "fra"},
		{"zh", "zho"},
		{"eng", "eng"},
		{"xyz", "xyz"}, // unknown 3-letter passes through
		{"xy", "und"},  // unknown 2-letter becomes undefined
		{"", "und"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO3(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO3(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestEquivalent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"eng", "eng", true},
		{"ENG", "eng", true},
		{"en", "eng", true},
		{"fre", "fra", true},
		{"fre", "eng", false},
		{"chi", "zh", true},
		{"und", "und", true},
		{"abc", "abd", false},
		{"", "", false},
		{"eng", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := Equivalent(tt.a, tt.b); got != tt.want {
				t.Errorf("Equivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"eng", "English"},
		{"fre", "French"},
		{"chi", "Chinese"},
		{"kor", "Korean"},
		{"english", "English"},
		{"swa", "Swahili"},
		{"", "Unknown"},
		{"q1", "Q1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := DisplayName(tt.input)
			if result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil", nil, nil},
		{"empty", []string{}, nil},
		{"dedup case", []string{"ENG", "eng"}, []string{"eng"}},
		{"keeps iso form", []string{"en", "eng"}, []string{"en", "eng"}},
		{"strips whitespace", []string{" fre ", " "}, []string{"fre"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeList(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("NormalizeList(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("NormalizeList(%v)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestTargetLookup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantOK   bool
	}{
		{"english name", "Chinese", "zh", true},
		{"case insensitive", "korean", "ko", true},
		{"native name", "日文", "ja", true},
		{"code", "EN", "en", true},
		{"unknown", "Klingon", "", false},
		{"blank", "  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := LookupTarget(tt.input)
			if ok != tt.wantOK || target.Code != tt.wantCode {
				t.Fatalf("LookupTarget(%q) = %+v, %v", tt.input, target, ok)
			}
		})
	}
}

func TestTargetCodeFallsBackToChinese(t *testing.T) {
	if got := TargetCode("Klingon"); got != DefaultTargetCode {
		t.Fatalf("TargetCode(unmapped) = %q, want %q", got, DefaultTargetCode)
	}
	if got := TargetCode("Japanese"); got != "ja" {
		t.Fatalf("TargetCode(Japanese) = %q", got)
	}
	if DefaultTarget().Code != "zh" {
		t.Fatalf("default target should be Chinese, got %+v", DefaultTarget())
	}
	if len(TargetNames()) != 4 {
		t.Fatalf("expected four targets, got %v", TargetNames())
	}
}
