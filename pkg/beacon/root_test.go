package beacon

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRoot_RoundTrip(t *testing.T) {
	input := "0x4d611d5b93fdab69013a7f0a2f961caca0c853f87cfe9595fe50038163079360"

	root, err := ParseRoot(input)
	if err != nil {
		t.Fatalf("ParseRoot(%q) failed: %v", input, err)
	}

	if got := root.Hex(); got != input {
		t.Errorf("Hex() = %q, want %q", got, input)
	}
}

func TestParseRoot_NoPrefix(t *testing.T) {
	// The 0x prefix is optional
	bare := strings.Repeat("ab", RootLength)

	root, err := ParseRoot(bare)
	if err != nil {
		t.Fatalf("ParseRoot(%q) failed: %v", bare, err)
	}

	if got := root.Hex(); got != "0x"+bare {
		t.Errorf("Hex() = %q, want %q", got, "0x"+bare)
	}
}

func TestParseRoot_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too_short", "0xabcd"},
		{"too_long", "0x" + strings.Repeat("ab", RootLength+1)},
		{"not_hex", "0x" + strings.Repeat("zz", RootLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoot(tt.input)
			if err == nil {
				t.Fatalf("ParseRoot(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, ErrInvalidRoot) {
				t.Errorf("Expected ErrInvalidRoot, got %v", err)
			}
		})
	}
}

func TestRoot_IsZero(t *testing.T) {
	var zero Root
	if !zero.IsZero() {
		t.Error("Zero root should report IsZero")
	}

	root, err := ParseRoot("0x" + strings.Repeat("01", RootLength))
	if err != nil {
		t.Fatalf("ParseRoot failed: %v", err)
	}
	if root.IsZero() {
		t.Error("Non-zero root should not report IsZero")
	}
}
