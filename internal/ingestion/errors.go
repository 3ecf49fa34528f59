package ingestion

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// ErrUnsupportedFileType reports a file extension this core doesn't parse.
func ErrUnsupportedFileType(ext string) error {
	return httperror.NewHTTPErrorf(http.StatusBadRequest, "unsupported file type: %s", ext)
}

// InvalidMappingError reports a column mapped to a field outside the
// Standard Field Set.
func InvalidMappingError(column, field string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("column %q maps to unknown field %q", column, field))
}
