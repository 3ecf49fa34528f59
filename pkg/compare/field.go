// Package compare implements the field and record comparators: the
// dispatch layer that routes a Standard Field's two values through the
// right normalizer/kernel pipeline, and the weighted aggregation across a
// whole record.
package compare

import (
	"strings"

	"github.com/Ramsey-B/magnolia/pkg/normalize"
	"github.com/Ramsey-B/magnolia/pkg/similarity"
)

// FieldComparator dispatches (field, a, b) to the normalizer/kernel
// pipeline for that Standard Field and returns a score in [0,1].
type FieldComparator struct {
	scorer *similarity.Scorer
}

func NewFieldComparator() *FieldComparator {
	return &FieldComparator{scorer: similarity.NewScorer()}
}

// Compare scores one field. Either value empty/absent yields 0.0 before any
// field-specific pipeline runs.
func (c *FieldComparator) Compare(field, a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	switch field {
	case "email":
		na, nb := normalize.Email(a), normalize.Email(b)
		return c.scorer.Exact(na, nb)

	case "tax_id":
		na, nb := normalize.Text(a), normalize.Text(b)
		return c.scorer.Exact(na, nb)

	case "phone":
		na, nb := normalize.Phone(a), normalize.Phone(b)
		if na == "" || nb == "" {
			return 0.0
		}
		if strings.HasSuffix(na, nb) || strings.HasSuffix(nb, na) {
			return 0.95
		}
		return c.scorer.Edit(na, nb)

	case "first_name", "last_name":
		na, nb := normalize.Text(a), normalize.Text(b)
		return maxScore(c.scorer.JaroWinkler(na, nb), c.scorer.Phonetic(na, nb))

	case "company_name":
		na, nb := normalize.Text(a), normalize.Text(b)
		return maxScore(c.scorer.JaroWinkler(na, nb), c.scorer.TokenSort(na, nb), c.scorer.Edit(na, nb))

	case "address_line1", "address_line2":
		na, nb := normalize.Text(a), normalize.Text(b)
		return maxScore(c.scorer.TokenSort(na, nb), c.scorer.Edit(na, nb))

	case "website":
		na, nb := normalize.Website(a), normalize.Website(b)
		return c.scorer.Exact(na, nb)

	default:
		na, nb := normalize.Text(a), normalize.Text(b)
		return c.scorer.JaroWinkler(na, nb)
	}
}

func maxScore(scores ...float64) float64 {
	best := scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
	}
	return best
}
