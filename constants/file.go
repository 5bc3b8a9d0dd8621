package constants

import "strings"

// FileTypes holds the input formats the ingest readers understand.
var FileTypes = []string{"CSV", "XLSX"}

// AllowedExtensions holds the input file extensions accepted by clean-orders.
var AllowedExtensions = map[string]struct{}{
	"csv":  {},
	"xlsx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat returns the FileTypes entry for ext, or "" when unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "csv":
		return "CSV"
	case "xlsx":
		return "XLSX"
	default:
		return ""
	}
}
