package models

import "time"

// GoldenRecord is the canonical merged entity for a real-world customer,
// aggregated from one or more CustomerRecords.
type GoldenRecord struct {
	ID string `json:"id" db:"id"`

	CompanyName  *string `json:"company_name,omitempty" db:"company_name"`
	FirstName    *string `json:"first_name,omitempty" db:"first_name"`
	LastName     *string `json:"last_name,omitempty" db:"last_name"`
	Email        *string `json:"email,omitempty" db:"email"`
	Phone        *string `json:"phone,omitempty" db:"phone"`
	AddressLine1 *string `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty" db:"address_line2"`
	City         *string `json:"city,omitempty" db:"city"`
	State        *string `json:"state,omitempty" db:"state"`
	PostalCode   *string `json:"postal_code,omitempty" db:"postal_code"`
	Country      *string `json:"country,omitempty" db:"country"`
	TaxID        *string `json:"tax_id,omitempty" db:"tax_id"`
	Website      *string `json:"website,omitempty" db:"website"`

	SourceCount int       `json:"source_count" db:"source_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SetField sets a Standard Field on the golden record by name, ignoring
// unknown names. Mirrors CustomerRecord.SetField so the merge planner's
// output map can be applied uniformly to either entity.
func (g *GoldenRecord) SetField(name string, value *string) {
	switch name {
	case "company_name":
		g.CompanyName = value
	case "first_name":
		g.FirstName = value
	case "last_name":
		g.LastName = value
	case "email":
		g.Email = value
	case "phone":
		g.Phone = value
	case "address_line1":
		g.AddressLine1 = value
	case "address_line2":
		g.AddressLine2 = value
	case "city":
		g.City = value
	case "state":
		g.State = value
	case "postal_code":
		g.PostalCode = value
	case "country":
		g.Country = value
	case "tax_id":
		g.TaxID = value
	case "website":
		g.Website = value
	}
}

// Field returns a Standard Field's current value on the golden record.
func (g *GoldenRecord) Field(name string) *string {
	switch name {
	case "company_name":
		return g.CompanyName
	case "first_name":
		return g.FirstName
	case "last_name":
		return g.LastName
	case "email":
		return g.Email
	case "phone":
		return g.Phone
	case "address_line1":
		return g.AddressLine1
	case "address_line2":
		return g.AddressLine2
	case "city":
		return g.City
	case "state":
		return g.State
	case "postal_code":
		return g.PostalCode
	case "country":
		return g.Country
	case "tax_id":
		return g.TaxID
	case "website":
		return g.Website
	default:
		return nil
	}
}
