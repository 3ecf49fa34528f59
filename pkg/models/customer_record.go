package models

import "github.com/Ramsey-B/magnolia/internal/platform/database"

// StandardFields lists the thirteen canonical customer attributes in the
// order they are declared throughout the system (CSV export, merge planner).
// Changing this order changes export column order.
var StandardFields = []string{
	"company_name",
	"first_name",
	"last_name",
	"email",
	"phone",
	"address_line1",
	"address_line2",
	"city",
	"state",
	"postal_code",
	"country",
	"tax_id",
	"website",
}

// CustomerRecord is one row imported from one DataSource. Field order
// matches schema: id, source_id, source_row_number, standard fields,
// raw_data, golden_record_id.
type CustomerRecord struct {
	ID               string `json:"id" db:"id"`
	SourceID         string `json:"source_id" db:"source_id"`
	SourceRowNumber  int    `json:"source_row_number" db:"source_row_number"`

	CompanyName   *string `json:"company_name,omitempty" db:"company_name"`
	FirstName     *string `json:"first_name,omitempty" db:"first_name"`
	LastName      *string `json:"last_name,omitempty" db:"last_name"`
	Email         *string `json:"email,omitempty" db:"email"`
	Phone         *string `json:"phone,omitempty" db:"phone"`
	AddressLine1  *string `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2  *string `json:"address_line2,omitempty" db:"address_line2"`
	City          *string `json:"city,omitempty" db:"city"`
	State         *string `json:"state,omitempty" db:"state"`
	PostalCode    *string `json:"postal_code,omitempty" db:"postal_code"`
	Country       *string `json:"country,omitempty" db:"country"`
	TaxID         *string `json:"tax_id,omitempty" db:"tax_id"`
	Website       *string `json:"website,omitempty" db:"website"`

	RawData database.JSONB[map[string]string] `json:"raw_data" db:"raw_data"`

	GoldenRecordID *string `json:"golden_record_id,omitempty" db:"golden_record_id"`
}

// Field returns the raw (possibly nil) value for a Standard Field by name.
// Unknown field names return nil; callers that need InvalidInput semantics
// validate the field name against StandardFields first.
func (c *CustomerRecord) Field(name string) *string {
	switch name {
	case "company_name":
		return c.CompanyName
	case "first_name":
		return c.FirstName
	case "last_name":
		return c.LastName
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	case "address_line1":
		return c.AddressLine1
	case "address_line2":
		return c.AddressLine2
	case "city":
		return c.City
	case "state":
		return c.State
	case "postal_code":
		return c.PostalCode
	case "country":
		return c.Country
	case "tax_id":
		return c.TaxID
	case "website":
		return c.Website
	default:
		return nil
	}
}

// SetField sets the Standard Field by name, ignoring unknown names.
func (c *CustomerRecord) SetField(name string, value *string) {
	switch name {
	case "company_name":
		c.CompanyName = value
	case "first_name":
		c.FirstName = value
	case "last_name":
		c.LastName = value
	case "email":
		c.Email = value
	case "phone":
		c.Phone = value
	case "address_line1":
		c.AddressLine1 = value
	case "address_line2":
		c.AddressLine2 = value
	case "city":
		c.City = value
	case "state":
		c.State = value
	case "postal_code":
		c.PostalCode = value
	case "country":
		c.Country = value
	case "tax_id":
		c.TaxID = value
	case "website":
		c.Website = value
	}
}

// FieldValue returns the field's value or "" if absent, treating absent and
// empty as equivalent per the data model invariant.
func (c *CustomerRecord) FieldValue(name string) string {
	v := c.Field(name)
	if v == nil {
		return ""
	}
	return *v
}

// IsStandardField reports whether name is one of the thirteen Standard Fields.
func IsStandardField(name string) bool {
	for _, f := range StandardFields {
		if f == name {
			return true
		}
	}
	return false
}
