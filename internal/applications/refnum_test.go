package applications

import (
	"testing"
	"time"
)

func TestNewReferenceNumberShape(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		prefix string
		code   string
		want   string
	}{
		{"default prefix", "", "TEST2024", "EPC-1788091200000-2024"},
		{"custom prefix", "epc", "TEST2024", "EPC-1788091200000-2024"},
		{"named prefix", "PORTAL", "ABCD1234", "PORTAL-1788091200000-1234"},
		{"short code", "EPC", "AB", "EPC-1788091200000-AB"},
		{"empty code", "EPC", "", "EPC-1788091200000-0000"},
		{"lowercase code", "EPC", "test2024", "EPC-1788091200000-2024"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewReferenceNumber(tc.prefix, tc.code, now)
			if got != tc.want {
				t.Fatalf("NewReferenceNumber(%q, %q) = %q, want %q", tc.prefix, tc.code, got, tc.want)
			}
		})
	}
}

func TestNewReferenceNumberMatchesPublishedPattern(t *testing.T) {
	now := time.Now()
	ref := NewReferenceNumber("EPC", "TEST2024", now)
	if !referencePattern.MatchString(ref) {
		t.Fatalf("reference %q does not match %s", ref, referencePattern)
	}
}
