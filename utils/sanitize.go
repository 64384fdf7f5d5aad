package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()

	// the HTML tokenizer folds CR and CRLF into LF
	newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// HasUnsafeMarkup reports whether the UGC policy would drop or rewrite any part of input.
// Plain text, entities included, is never unsafe.
func HasUnsafeMarkup(input string) bool {
	return html.UnescapeString(Sanitize(input)) != html.UnescapeString(newlines.Replace(input))
}

// VisibleText returns the text a reader would see once all markup is removed, trimmed.
func VisibleText(input string) string {
	return strings.TrimSpace(html.UnescapeString(stripper.Sanitize(input)))
}
