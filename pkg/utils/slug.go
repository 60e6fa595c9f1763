package utils

import (
	"regexp"
	"strings"
)

var turkishReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify turns a display name into a URL-safe slug. Turkish characters are
// transliterated to their ASCII counterparts before stripping.
func Slugify(name string) string {
	clean := turkishReplacer.Replace(name)
	clean = slugStrip.ReplaceAllString(clean, "")
	clean = strings.ToLower(strings.TrimSpace(clean))
	return slugCollapse.ReplaceAllString(clean, "-")
}
