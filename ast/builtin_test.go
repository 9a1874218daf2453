package ast

import "testing"

func TestIsKeyword(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		// Keywords
		{"import is keyword", "import", true},
		{"export is keyword", "export", true},
		{"default is keyword", "default", true},
		{"function is keyword", "function", true},
		{"const is keyword", "const", true},
		{"let is keyword", "let", true},
		{"null is keyword", "null", true},
		{"typeof is keyword", "typeof", true},
		{"await is keyword", "await", true},
		{"enum is keyword", "enum", true},

		// Non-keywords
		{"from is not keyword", "from", false},
		{"as is not keyword", "as", false},
		{"undefined is not keyword", "undefined", false},
		{"myVar is not keyword", "myVar", false},
		{"empty is not keyword", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsKeyword(tt.input)
			if result != tt.expected {
				t.Errorf("IsKeyword(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsReservedName(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"class", true},
		{"arguments", true},
		{"eval", true},
		{"undefined", true},
		{"_signIn", false},
		{"signIn", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsReservedName(tt.input); got != tt.expected {
				t.Errorf("IsReservedName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsIdentifierName(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"signIn", true},
		{"_private", true},
		{"$el", true},
		{"a1", true},
		{"1a", false},
		{"kebab-case", false},
		{"with space", false},
		{"", false},
		{"ünicode", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsIdentifierName(tt.input); got != tt.expected {
				t.Errorf("IsIdentifierName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
