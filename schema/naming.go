package schema

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a Go identifier to snake_case with acronym
// handling: "UserID" -> "user_id", "HTTPServer" -> "http_server".
func ToSnakeCase(name string) string {
	runes := []rune(name)
	if len(runes) <= 1 {
		return strings.ToLower(name)
	}

	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)
	for i, ch := range runes {
		if unicode.IsUpper(ch) && i > 0 {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsDigit(prev) && (unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextIsLower)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(ch))
	}
	return b.String()
}
