package authority

import (
	"fmt"
	"strings"
)

// CaseRecord is the minimal payload handed off to the record authority after
// local persistence. It carries just enough for operations to pick the case
// up, plus a pointer back to the full application record.
type CaseRecord struct {
	ReferenceNumber string `json:"referenceNumber"`
	InvitationCode  string `json:"invitationCode"`
	CompanyName     string `json:"companyName"`
	ContactName     string `json:"contactName"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
	PortalRecord    string `json:"portalRecord"`
	SourceSystem    string `json:"sourceSystem"`
}

const sourceSystem = "epc-portal"

// caseFieldSources maps each CaseRecord field to the form paths it may be
// populated from, in priority order. The first non-empty value wins. Dotted
// entries descend into nested objects.
var caseFieldSources = map[string][]string{
	"companyName":  {"companyName", "company.name", "company_name", "organizationName", "legalName"},
	"contactName":  {"contactName", "contact.name", "primaryContact", "applicantName", "fullName"},
	"contactEmail": {"contactEmail", "contact.email", "email", "primaryContactEmail"},
	"contactPhone": {"contactPhone", "contact.phone", "phone", "phoneNumber"},
}

// BuildCaseRecord assembles the handoff payload from the raw form data using
// the caseFieldSources table.
func BuildCaseRecord(referenceNumber, invitationCode string, form map[string]any) CaseRecord {
	return CaseRecord{
		ReferenceNumber: referenceNumber,
		InvitationCode:  invitationCode,
		CompanyName:     coalesceField(form, caseFieldSources["companyName"]),
		ContactName:     coalesceField(form, caseFieldSources["contactName"]),
		ContactEmail:    coalesceField(form, caseFieldSources["contactEmail"]),
		ContactPhone:    coalesceField(form, caseFieldSources["contactPhone"]),
		PortalRecord:    "applications/" + referenceNumber,
		SourceSystem:    sourceSystem,
	}
}

func coalesceField(form map[string]any, paths []string) string {
	for _, path := range paths {
		if val := lookupPath(form, path); val != "" {
			return val
		}
	}
	return ""
}

func lookupPath(form map[string]any, path string) string {
	current := form
	parts := strings.Split(path, ".")
	for i, part := range parts {
		raw, ok := current[part]
		if !ok {
			return ""
		}
		if i == len(parts)-1 {
			return stringValue(raw)
		}
		nested, ok := raw.(map[string]any)
		if !ok {
			return ""
		}
		current = nested
	}
	return ""
}

func stringValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}
