// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"errors"
	"strings"
	"testing"
)

func TestComputeDigest_Deterministic(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		nil,
		[]byte(""),
		[]byte("hello"),
		[]byte(`{"version": "1.0.0"}`),
	}

	for _, p := range payloads {
		first := ComputeDigest(p)
		second := ComputeDigest(p)
		if first != second {
			t.Errorf("digest of %q not deterministic: %q vs %q", p, first, second)
		}
		if len(first) != 64 {
			t.Errorf("digest of %q has length %d, want 64", p, len(first))
		}
		if first != strings.ToLower(first) {
			t.Errorf("digest of %q not lowercase: %q", p, first)
		}
	}
}

func TestComputeDigest_KnownVector(t *testing.T) {
	t.Parallel()

	// SHA256 of the empty string.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := ComputeDigest([]byte{}); got != want {
		t.Errorf("ComputeDigest(empty) = %q, want %q", got, want)
	}
}

func TestVerifyBytes_CaseInsensitive(t *testing.T) {
	t.Parallel()

	data := []byte("rules payload")
	expected := strings.ToUpper(ComputeDigest(data))

	if err := verifyBytes(data, expected, "pack-a", "rules"); err != nil {
		t.Fatalf("uppercase expected digest should verify: %v", err)
	}
}

func TestVerifyBytes_Mismatch(t *testing.T) {
	t.Parallel()

	data := []byte("payload")
	err := verifyBytes(data, strings.Repeat("ab", 32), "pack-a", "manifest")
	if err == nil {
		t.Fatal("expected error for wrong digest")
	}

	if !errors.Is(err, ErrIntegrityMismatch) {
		t.Errorf("error should wrap ErrIntegrityMismatch, got %v", err)
	}

	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("error should be *IntegrityError, got %T", err)
	}
	if ie.PackID != "pack-a" {
		t.Errorf("PackID = %q, want %q", ie.PackID, "pack-a")
	}
	if ie.Artifact != "manifest" {
		t.Errorf("Artifact = %q, want %q", ie.Artifact, "manifest")
	}
}

func TestIsValidHexDigest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid lowercase", strings.Repeat("a1", 32), true},
		{"valid uppercase", strings.Repeat("A1", 32), true},
		{"too short", "abcdef", false},
		{"too long", strings.Repeat("a", 65), false},
		{"non-hex characters", strings.Repeat("z", 64), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isValidHexDigest(tt.input); got != tt.want {
				t.Errorf("isValidHexDigest(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
