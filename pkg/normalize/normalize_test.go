package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "acme corp", Text("  Acme   Corp  "))
	assert.Equal(t, "", Text(""))
	assert.Equal(t, "a b c", Text("A\tB\nC"))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "jane@acme.com", Email("  Jane@Acme.com "))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "5551234567", Phone("(555) 123-4567"))
	assert.Equal(t, "", Phone("n/a"))
}

func TestWebsite(t *testing.T) {
	assert.Equal(t, "acme.com", Website("https://www.acme.com/"))
	assert.Equal(t, "acme.com", Website("http://acme.com"))
	assert.Equal(t, "acme.com", Website("acme.com/"))
}
