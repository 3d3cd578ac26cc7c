package constants

import "strings"

// PDFExt is the only extension picked up from the input directory.
const PDFExt = "pdf"

// Diagnostic side-file suffixes, appended to the document stem.
const (
	DiagText1Suffix  = ".diag-text1.txt"
	DiagText2Suffix  = ".diag-text2.txt"
	DiagFieldsSuffix = ".diag-fields.json"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether ext (with or without dot) names a PDF.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == PDFExt
}
