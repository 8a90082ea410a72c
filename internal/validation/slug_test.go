package validation_test

import (
	"strings"
	"testing"

	"shortlink/internal/validation"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AbC123", "abc123"},
		{"  promo-2025  ", "promo-2025"},
		{"already-lower", "already-lower"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := validation.NormalizeSlug(tt.in); got != tt.want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{"minimal length", "abcd", nil},
		{"digits and dashes", "promo-2025", nil},
		{"underscores", "my_link_01", nil},
		{"max length", strings.Repeat("a", 64), nil},

		{"empty", "", validation.ErrSlugTooShort},
		{"too short", "abc", validation.ErrSlugTooShort},
		{"too long", strings.Repeat("a", 65), validation.ErrSlugTooLong},
		{"uppercase rejected", "ABCD", validation.ErrSlugInvalidChars},
		{"slash rejected", "ab/cd", validation.ErrSlugInvalidChars},
		{"space rejected", "ab cd", validation.ErrSlugInvalidChars},
		{"unicode rejected", "abcé", validation.ErrSlugInvalidChars},
		{"dot rejected", "ab.cd", validation.ErrSlugInvalidChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validation.ValidateSlug(tt.slug); err != tt.wantErr {
				t.Errorf("ValidateSlug(%q) = %v, want %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}
