package golden

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// ErrConflictingGoldens is returned when a merge's two records already
// belong to two different, distinct golden records. Resolving the
// golden-golden overlap is left to the operator; this store never merges
// goldens into each other.
func ErrConflictingGoldens() error {
	return httperror.NewHTTPError(http.StatusConflict, "records belong to two different golden records")
}

// ErrInvalidStateTransition is returned for a review or merge request
// against a candidate already in a terminal status (REJECTED or MERGED).
func ErrInvalidStateTransition(msg string) error {
	return httperror.NewHTTPError(http.StatusConflict, msg)
}

// ErrStaleCandidate is returned when a merge loses the race for the
// record-pair lock to a concurrent merge of the same pair.
func ErrStaleCandidate() error {
	return httperror.NewHTTPError(http.StatusConflict, "candidate pair is being merged by another request")
}
