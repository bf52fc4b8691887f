package constants

import "strings"

// PDFMagic is the byte prefix every accepted upload must start with.
// Nothing beyond the prefix is parsed during validation.
const PDFMagic = "%PDF"

// AllowedExtensions holds the upload extensions the intake accepts.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// MinTextLength is the minimum trimmed OCR output length for a document
// to count as readable. Below this the document fails with a
// content-insufficiency error.
const MinTextLength = 10

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedFilename reports whether the upload filename carries an
// accepted extension.
func IsAllowedFilename(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	_, ok := AllowedExtensions[NormalizeExt(name[i:])]
	return ok
}
