package mergeplan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/magnolia/pkg/models"
)

func strp(s string) *string { return &s }

func TestAutoSelectBestValues_OnlyOneSidePresent(t *testing.T) {
	a := &models.CustomerRecord{Email: strp("jane@acme.com")}
	b := &models.CustomerRecord{}

	plan := AutoSelectBestValues(a, b)
	assert.Equal(t, "jane@acme.com", *plan["email"])
}

func TestAutoSelectBestValues_BothPresentLongerWins(t *testing.T) {
	a := &models.CustomerRecord{CompanyName: strp("Acme")}
	b := &models.CustomerRecord{CompanyName: strp("Acme Corporation")}

	plan := AutoSelectBestValues(a, b)
	assert.Equal(t, "Acme Corporation", *plan["company_name"])
}

func TestAutoSelectBestValues_TieFavorsA(t *testing.T) {
	a := &models.CustomerRecord{CompanyName: strp("Acme")}
	b := &models.CustomerRecord{CompanyName: strp("Acmf")}

	plan := AutoSelectBestValues(a, b)
	assert.Equal(t, "Acme", *plan["company_name"])
}

func TestAutoSelectBestValues_NeitherPresentYieldsNil(t *testing.T) {
	a := &models.CustomerRecord{}
	b := &models.CustomerRecord{}

	plan := AutoSelectBestValues(a, b)
	assert.Nil(t, plan["phone"])
}

func TestAutoSelectBestValues_EmptyStringTreatedAsAbsent(t *testing.T) {
	a := &models.CustomerRecord{Email: strp("")}
	b := &models.CustomerRecord{Email: strp("jane@acme.com")}

	plan := AutoSelectBestValues(a, b)
	assert.Equal(t, "jane@acme.com", *plan["email"])
}

func TestResolveValues_OverrideWins(t *testing.T) {
	a := &models.CustomerRecord{CompanyName: strp("Acme")}
	b := &models.CustomerRecord{CompanyName: strp("Acme Corporation")}

	plan := ResolveValues(a, b, map[string]*string{"company_name": strp("Acme LLC")})
	assert.Equal(t, "Acme LLC", *plan["company_name"])
}

func TestResolveValues_UnknownFieldIgnored(t *testing.T) {
	a := &models.CustomerRecord{CompanyName: strp("Acme")}
	b := &models.CustomerRecord{}

	plan := ResolveValues(a, b, map[string]*string{"nickname": strp("whatever")})
	_, ok := plan["nickname"]
	assert.False(t, ok)
	assert.Equal(t, "Acme", *plan["company_name"])
}

func TestResolveValues_NoOverridesFallsBackToAuto(t *testing.T) {
	a := &models.CustomerRecord{Email: strp("jane@acme.com")}
	b := &models.CustomerRecord{}

	plan := ResolveValues(a, b, nil)
	assert.Equal(t, "jane@acme.com", *plan["email"])
}
