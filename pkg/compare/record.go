package compare

import (
	"math"

	"github.com/Ramsey-B/magnolia/pkg/models"
)

// DefaultFieldWeights are the default per-field weights used when a caller
// supplies none. Fields absent from this map are never compared unless the
// caller provides an explicit override that includes them.
var DefaultFieldWeights = map[string]float64{
	"company_name":  0.25,
	"email":         0.20,
	"phone":         0.10,
	"first_name":    0.10,
	"last_name":     0.10,
	"address_line1": 0.05,
	"city":          0.05,
	"postal_code":   0.05,
	"tax_id":        0.05,
	"website":       0.05,
}

// RecordComparator aggregates per-field scores into one overall score using
// a dynamic denominator: fields where both sides are empty contribute to
// neither the numerator nor the denominator.
type RecordComparator struct {
	fields *FieldComparator
}

func NewRecordComparator() *RecordComparator {
	return &RecordComparator{fields: NewFieldComparator()}
}

// Result holds the per-field breakdown and the aggregate score.
type Result struct {
	FieldScores  map[string]float64
	OverallScore float64
}

// Compare scores a against b using weights, or DefaultFieldWeights if nil.
func (c *RecordComparator) Compare(a, b *models.CustomerRecord, weights map[string]float64) Result {
	if weights == nil {
		weights = DefaultFieldWeights
	}

	fieldScores := make(map[string]float64)
	var weightedSum, totalWeight float64

	for field, weight := range weights {
		va, vb := a.FieldValue(field), b.FieldValue(field)
		if va == "" && vb == "" {
			continue
		}

		score := round4(c.fields.Compare(field, va, vb))
		fieldScores[field] = score
		weightedSum += score * weight
		totalWeight += weight
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = round4(weightedSum / totalWeight)
	}

	return Result{FieldScores: fieldScores, OverallScore: overall}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
