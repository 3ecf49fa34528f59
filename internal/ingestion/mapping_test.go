package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMapColumns_MatchesCommonVariants(t *testing.T) {
	mapping := AutoMapColumns([]string{"Company", "First Name", "E-Mail", "Zip Code", "Nickname"})

	assert.Equal(t, "company_name", mapping["Company"])
	assert.Equal(t, "first_name", mapping["First Name"])
	assert.Equal(t, "email", mapping["E-Mail"])
	assert.Equal(t, "postal_code", mapping["Zip Code"])
	_, ok := mapping["Nickname"]
	assert.False(t, ok)
}

func TestAutoMapColumns_NormalizesHyphensAndCase(t *testing.T) {
	mapping := AutoMapColumns([]string{"PHONE-NUMBER"})
	assert.Equal(t, "phone", mapping["PHONE-NUMBER"])
}

func TestValidateMapping_RejectsUnknownField(t *testing.T) {
	err := ValidateMapping(map[string]string{"col1": "nickname"})
	require.Error(t, err)
}

func TestValidateMapping_AcceptsStandardFields(t *testing.T) {
	err := ValidateMapping(map[string]string{"col1": "email", "col2": "company_name"})
	require.NoError(t, err)
}
