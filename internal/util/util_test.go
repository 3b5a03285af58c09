package util

import (
	"strings"
	"testing"
)

func TestGenerateNumericCode(t *testing.T) {
	code := GenerateNumericCode(6)
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("expected digits only, got %q", code)
		}
	}

	if GenerateNumericCode(0) != "" {
		t.Error("expected empty string for zero length")
	}
	if GenerateNumericCode(-1) != "" {
		t.Error("expected empty string for negative length")
	}
}

func TestGenerateRandomID(t *testing.T) {
	id := GenerateRandomID("guest_", 8)
	if !strings.HasPrefix(id, "guest_") {
		t.Errorf("expected prefix, got %q", id)
	}
	if len(id) != len("guest_")+8 {
		t.Errorf("unexpected length: %q", id)
	}
	for _, c := range strings.TrimPrefix(id, "guest_") {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("expected hex characters, got %q", id)
		}
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
		{"", true, true},
		{"", false, false},
		{"banana", true, true},
		{"banana", false, false},
	}
	for _, tt := range tests {
		t.Setenv("TRACKR_TEST_BOOL", tt.value)
		if got := ParseBoolEnv("TRACKR_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("TRACKR_TEST_INT", "42")
	if got := ParseIntEnv("TRACKR_TEST_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	t.Setenv("TRACKR_TEST_INT", " 13 ")
	if got := ParseIntEnv("TRACKR_TEST_INT", 7); got != 13 {
		t.Errorf("expected trimmed value 13, got %d", got)
	}

	t.Setenv("TRACKR_TEST_INT", "not-a-number")
	if got := ParseIntEnv("TRACKR_TEST_INT", 7); got != 7 {
		t.Errorf("expected default 7, got %d", got)
	}

	t.Setenv("TRACKR_TEST_INT", "")
	if got := ParseIntEnv("TRACKR_TEST_INT", 7); got != 7 {
		t.Errorf("expected default 7 for unset, got %d", got)
	}
}
