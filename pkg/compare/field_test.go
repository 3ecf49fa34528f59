package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldComparator_EmptyYieldsZero(t *testing.T) {
	c := NewFieldComparator()
	assert.Equal(t, 0.0, c.Compare("email", "", "jane@acme.com"))
	assert.Equal(t, 0.0, c.Compare("email", "jane@acme.com", ""))
}

func TestFieldComparator_Email(t *testing.T) {
	c := NewFieldComparator()
	assert.Equal(t, 1.0, c.Compare("email", "Jane@Acme.com", "jane@acme.com "))
	assert.Equal(t, 0.0, c.Compare("email", "jane@acme.com", "jane@widgets.com"))
}

func TestFieldComparator_Phone(t *testing.T) {
	c := NewFieldComparator()
	assert.Equal(t, 0.95, c.Compare("phone", "555-123-4567", "15551234567"))
	assert.Equal(t, 0.95, c.Compare("phone", "(555) 123-4567", "555-123-4567"))
}

func TestFieldComparator_Names(t *testing.T) {
	c := NewFieldComparator()
	score := c.Compare("first_name", "Jon", "John")
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestFieldComparator_CompanyName(t *testing.T) {
	c := NewFieldComparator()
	score := c.Compare("company_name", "Acme Corp", "Corp Acme")
	assert.Equal(t, 1.0, score)
}

func TestFieldComparator_Website(t *testing.T) {
	c := NewFieldComparator()
	assert.Equal(t, 1.0, c.Compare("website", "https://www.acme.com/", "acme.com"))
	assert.Equal(t, 0.0, c.Compare("website", "acme.com", "widgets.com"))
}

func TestFieldComparator_DefaultField(t *testing.T) {
	c := NewFieldComparator()
	assert.Equal(t, 1.0, c.Compare("city", "Springfield", "springfield"))
}
