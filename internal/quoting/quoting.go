// Package quoting holds each dialect's rules for quoting identifiers and
// inlined string literals.
package quoting

import "strings"

// Style is a dialect's quoting rules.
type Style struct {
	ident byte
	// backslash is set for dialects that treat \ inside string literals as
	// an escape character.
	backslash bool
}

var (
	// ANSI quotes identifiers with double quotes and leaves backslashes
	// alone (PostgreSQL with standard_conforming_strings, SQLite).
	ANSI = Style{ident: '"'}

	// MySQL quotes identifiers with backticks and escapes backslashes.
	MySQL = Style{ident: '`', backslash: true}
)

// Ident quotes a table, column or alias name. A quote character inside the
// name is doubled.
func (s Style) Ident(name string) string {
	q := string(s.ident)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// String renders v as a quoted string literal.
//
// Only used when parameters are disabled. MySQL with multi-byte character
// sets such as GBK can still be fooled by crafted input; bind parameters are
// not.
func (s Style) String(v string) string {
	if s.backslash {
		v = strings.ReplaceAll(v, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
