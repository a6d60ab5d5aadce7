package scraper

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Persian sites mix Arabic and Persian codepoints for the same letters.
var arabicFolder = strings.NewReplacer(
	"ي", "ی", // ي -> ی
	"ى", "ی", // ى -> ی
	"ك", "ک", // ك -> ک
)

// CleanText collapses whitespace and folds Arabic letter variants and
// combining marks so that filter matching behaves the same regardless of
// which codepoints a site happens to emit.
func CleanText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	result = arabicFolder.Replace(result)
	return strings.Join(strings.Fields(result), " ")
}

// AbsoluteURL resolves a possibly relative href against the source base URL.
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimSuffix(base, "/") + href
}
