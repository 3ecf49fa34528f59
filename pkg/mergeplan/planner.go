// Package mergeplan resolves the canonical attribute set for a merge: which
// value survives per Standard Field when two records disagree.
package mergeplan

import (
	"github.com/Ramsey-B/magnolia/pkg/models"
)

// AutoSelectBestValues picks a survivor per Standard Field: if exactly
// one side is present that value wins; if both are present the longer
// string wins, ties favor a; if neither is present the field resolves to
// nil.
func AutoSelectBestValues(a, b *models.CustomerRecord) map[string]*string {
	result := make(map[string]*string, len(models.StandardFields))

	for _, field := range models.StandardFields {
		va, vb := a.Field(field), b.Field(field)
		pa := va != nil && *va != ""
		pb := vb != nil && *vb != ""

		switch {
		case pa && !pb:
			result[field] = va
		case pb && !pa:
			result[field] = vb
		case pa && pb:
			if len(*vb) > len(*va) {
				result[field] = vb
			} else {
				result[field] = va
			}
		default:
			result[field] = nil
		}
	}

	return result
}

// ResolveValues applies an operator-supplied override on top of the
// auto-selected plan: any Standard Field present in surviving is used
// verbatim, everything else falls back to the auto plan.
func ResolveValues(a, b *models.CustomerRecord, surviving map[string]*string) map[string]*string {
	plan := AutoSelectBestValues(a, b)
	for field, value := range surviving {
		if !models.IsStandardField(field) {
			continue
		}
		plan[field] = value
	}
	return plan
}
