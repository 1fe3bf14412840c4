package authority

import "testing"

func TestBuildCaseRecordPrefersFlatFields(t *testing.T) {
	form := map[string]any{
		"companyName":  "Flat Co",
		"company":      map[string]any{"name": "Nested Co"},
		"contactEmail": "flat@co.test",
	}
	rec := BuildCaseRecord("EPC-1-2024", "TEST2024", form)

	if rec.CompanyName != "Flat Co" {
		t.Fatalf("expected flat field to win, got %q", rec.CompanyName)
	}
	if rec.ContactEmail != "flat@co.test" {
		t.Fatalf("unexpected contact email %q", rec.ContactEmail)
	}
	if rec.ReferenceNumber != "EPC-1-2024" || rec.InvitationCode != "TEST2024" {
		t.Fatalf("identity fields not carried: %+v", rec)
	}
	if rec.PortalRecord != "applications/EPC-1-2024" {
		t.Fatalf("unexpected portal record %q", rec.PortalRecord)
	}
	if rec.SourceSystem != "epc-portal" {
		t.Fatalf("unexpected source system %q", rec.SourceSystem)
	}
}

func TestBuildCaseRecordDescendsDottedPaths(t *testing.T) {
	form := map[string]any{
		"company": map[string]any{"name": "  Nested Co  "},
		"contact": map[string]any{
			"name":  "Jordan Reyes",
			"email": "jordan@nested.test",
			"phone": "555-0100",
		},
	}
	rec := BuildCaseRecord("EPC-1-2024", "TEST2024", form)

	if rec.CompanyName != "Nested Co" {
		t.Fatalf("expected trimmed nested value, got %q", rec.CompanyName)
	}
	if rec.ContactName != "Jordan Reyes" || rec.ContactEmail != "jordan@nested.test" || rec.ContactPhone != "555-0100" {
		t.Fatalf("nested contact fields not mapped: %+v", rec)
	}
}

func TestBuildCaseRecordFallsThroughAliases(t *testing.T) {
	form := map[string]any{
		"organizationName": "Alias Co",
		"applicantName":    "Sam Alias",
		"email":            "sam@alias.test",
		"phoneNumber":      "555-0199",
	}
	rec := BuildCaseRecord("EPC-1-2024", "TEST2024", form)

	if rec.CompanyName != "Alias Co" || rec.ContactName != "Sam Alias" {
		t.Fatalf("alias fields not mapped: %+v", rec)
	}
	if rec.ContactEmail != "sam@alias.test" || rec.ContactPhone != "555-0199" {
		t.Fatalf("alias contact fields not mapped: %+v", rec)
	}
}

func TestBuildCaseRecordIgnoresNonStringValues(t *testing.T) {
	form := map[string]any{
		"companyName": 42,
		"contact":     map[string]any{"email": []any{"not", "a", "string"}},
	}
	rec := BuildCaseRecord("EPC-1-2024", "TEST2024", form)

	if rec.CompanyName != "" || rec.ContactEmail != "" {
		t.Fatalf("non-string values must map to empty, got %+v", rec)
	}
}

func TestBuildCaseRecordEmptyForm(t *testing.T) {
	rec := BuildCaseRecord("EPC-1-2024", "TEST2024", nil)
	if rec.CompanyName != "" || rec.ContactName != "" {
		t.Fatalf("expected empty optional fields, got %+v", rec)
	}
	if rec.ReferenceNumber != "EPC-1-2024" {
		t.Fatalf("identity fields must always be set")
	}
}
