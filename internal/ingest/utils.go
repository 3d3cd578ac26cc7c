package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/vending-reports/constants"
)

// IsPDF checks the extension of path, case-insensitively.
func IsPDF(path string) bool {
	return constants.IsPDFExt(filepath.Ext(path))
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
