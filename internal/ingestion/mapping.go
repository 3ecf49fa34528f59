// Package ingestion parses uploaded CSV files into CustomerRecord rows:
// preview, auto-mapping of source columns to Standard Fields, and import.
package ingestion

import (
	"strings"

	"github.com/Ramsey-B/magnolia/pkg/models"
)

// AutoMapHints lists, per Standard Field, the common source column names
// that should auto-map to it. Verbatim from the ingestion service this
// package is ported from.
var AutoMapHints = map[string][]string{
	"company_name":  {"company", "company_name", "companyname", "organization", "org", "business", "firm"},
	"first_name":    {"first_name", "firstname", "first", "given_name", "givenname"},
	"last_name":     {"last_name", "lastname", "last", "surname", "family_name", "familyname"},
	"email":         {"email", "e-mail", "email_address", "emailaddress", "mail"},
	"phone":         {"phone", "telephone", "tel", "phone_number", "phonenumber", "mobile", "cell"},
	"address_line1": {"address", "address_line1", "address1", "street", "street_address", "addressline1"},
	"address_line2": {"address_line2", "address2", "addressline2", "suite", "apt", "unit"},
	"city":          {"city", "town", "municipality"},
	"state":         {"state", "province", "region", "state_province"},
	"postal_code":   {"postal_code", "postalcode", "zip", "zipcode", "zip_code", "postcode"},
	"country":       {"country", "nation", "country_code"},
	"tax_id":        {"tax_id", "taxid", "vat", "vat_number", "ein", "tax_number", "kvk", "coc"},
	"website":       {"website", "web", "url", "homepage", "site"},
}

// AutoMapColumns suggests a column_name -> standard_field mapping for a
// file's header row, matching a normalized column name exactly against
// AutoMapHints normalized the same way (so the hint "e-mail" matches a
// column "E-Mail"). A column with no match is omitted; the caller fills in the
// rest manually before import.
func AutoMapColumns(columns []string) map[string]string {
	mapping := make(map[string]string)
	for _, col := range columns {
		normalized := normalizeColumnName(col)
		for field, hints := range AutoMapHints {
			if containsHint(hints, normalized) {
				mapping[col] = field
				break
			}
		}
	}
	return mapping
}

func normalizeColumnName(col string) string {
	lower := strings.ToLower(strings.TrimSpace(col))
	lower = strings.ReplaceAll(lower, " ", "_")
	lower = strings.ReplaceAll(lower, "-", "_")
	return lower
}

func containsHint(hints []string, normalized string) bool {
	for _, h := range hints {
		if normalizeColumnName(h) == normalized {
			return true
		}
	}
	return false
}

// ValidateMapping rejects a caller-supplied mapping that targets a field
// outside the Standard Field Set.
func ValidateMapping(mapping map[string]string) error {
	for col, field := range mapping {
		if !models.IsStandardField(field) {
			return InvalidMappingError(col, field)
		}
	}
	return nil
}
