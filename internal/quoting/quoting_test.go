package quoting

import "testing"

func TestIdent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		style Style
		in    string
		want  string
	}{
		{ANSI, "users", `"users"`},
		{ANSI, "", `""`},
		{ANSI, `us"ers`, `"us""ers"`},
		{ANSI, `users"."passwords`, `"users"".""passwords"`},
		{ANSI, "my table", `"my table"`},
		{ANSI, "`", "\"`\""},
		{MySQL, "users", "`users`"},
		{MySQL, "a`b`c", "`a``b``c`"},
		{MySQL, "users`.`passwords", "`users``.``passwords`"},
		{MySQL, `"`, "`\"`"},
		{MySQL, "caf\u00e9", "`caf\u00e9`"},
	}
	for _, tt := range tests {
		if got := tt.style.Ident(tt.in); got != tt.want {
			t.Errorf("Ident(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		style Style
		in    string
		want  string
	}{
		{ANSI, "", "''"},
		{ANSI, "it's", "'it''s'"},
		{ANSI, "'; DROP TABLE users; --", "'''; DROP TABLE users; --'"},
		{ANSI, `C:\tmp`, `'C:\tmp'`},
		{MySQL, "it's", "'it''s'"},
		{MySQL, `C:\tmp`, `'C:\\tmp'`},
		{MySQL, `\'`, `'\\'''`},
		{MySQL, "caf\u00e9's", "'caf\u00e9''s'"},
	}
	for _, tt := range tests {
		if got := tt.style.String(tt.in); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
