package strings

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short value unchanged", "redis:6379", 20, "redis:6379"},
		{"exact length unchanged", "https://a.b", 11, "https://a.b"},
		{"long URL cut", "https://chat.example.com/api/google/callback", 20, "https://chat.exam..."},
		{"whitespace collapsed", "openid\n  email\tprofile", 40, "openid email profile"},
		{"unicode cut on runes", "ñañañañañaña", 6, "ñañ..."},
		{"tiny max clamped", "abcdefgh", 1, "a..."},
		{"negative max clamped", "abcdefgh", -5, "a..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}
