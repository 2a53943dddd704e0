package main

import (
	"io"
	"sort"
	"testing"

	"github.com/bawdo/casebulk/internal/testutil"
)

func newTestCompleter(tables ...string) *replCompleter {
	sess := NewSession("postgres", nil)
	sess.out = io.Discard
	for _, t := range tables {
		_ = sess.Execute("table " + t + " name:text email")
	}
	return &replCompleter{sess: sess}
}

func assertCandidates(t *testing.T, got []string, want ...string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// --- Command completion ---

func TestCompleteCommandsEmpty(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates := c.completeCommands("")
	names := c.sess.commandNames()
	if len(candidates) != len(names) {
		t.Errorf("expected %d commands, got %d", len(names), len(candidates))
	}
}

func TestCompleteCommandsPrefix(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	assertCandidates(t, c.completeCommands("fl"), "flush")
	assertCandidates(t, c.completeCommands("st"), "stage", "staged", "status")
}

func TestCommandNamesHideAliases(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	for _, name := range c.sess.commandNames() {
		if name == "t" {
			t.Error("hidden alias t should not be offered")
		}
	}
}

// --- Context detection ---

func TestParseContext(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	tests := []struct {
		line   string
		ctx    completionContext
		prefix string
	}{
		{"", contextCommand, ""},
		{"sta", contextCommand, "sta"},
		{"table us", contextTableName, "us"},
		{"show ", contextTableName, ""},
		{"unstage u", contextTableName, "u"},
		{"stage u", contextTableName, "u"},
		{"stage users 1", contextNone, ""},
		{"stage users 1 ", contextColumn, ""},
		{"stage users 1 na", contextColumn, "na"},
		{"stage users 1 name ", contextNone, ""},
		{"stage users 1 name = 'x', em", contextColumn, "em"},
		{"stage users 1 name = 'x',em", contextColumn, "em"},
		{"engine my", contextEngine, "my"},
		{"plugin so", contextPlugin, "so"},
		{"plugin off so", contextPluginOff, "so"},
		{"plugin softdelete deleted_at", contextNone, ""},
		{"raw sel", contextNone, ""},
	}
	for _, tc := range tests {
		ctx, prefix := c.parseContext(tc.line)
		if ctx != tc.ctx || prefix != tc.prefix {
			t.Errorf("parseContext(%q) = (%d, %q), want (%d, %q)", tc.line, ctx, prefix, tc.ctx, tc.prefix)
		}
	}
}

// --- Candidates ---

func TestCompleteTableNames(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users", "posts", "uploads")
	assertCandidates(t, c.completeTableNames("u"), "users", "uploads")
	assertCandidates(t, c.completeTableNames("P"), "posts")
}

func TestCompleteTableNamesIncludesDatabaseTables(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	testutil.AssertNoError(t, c.sess.Execute("engine sqlite"))
	testutil.AssertNoError(t, c.sess.Execute("connect :memory:"))
	t.Cleanup(c.sess.close)
	testutil.AssertNoError(t, c.sess.Execute(`raw CREATE TABLE "users" ("id" INTEGER PRIMARY KEY)`))
	testutil.AssertNoError(t, c.sess.Execute(`raw CREATE TABLE "orders" ("id" INTEGER PRIMARY KEY)`))
	assertCandidates(t, c.completeTableNames(""), "orders", "users")
}

func TestCompleteColumnsSkipsKey(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	assertCandidates(t, c.completeColumns("users", ""), "name", "email")
	assertCandidates(t, c.completeColumns("users", "e"), "email")
	assertCandidates(t, c.completeColumns("nope", ""))
}

func TestDoReturnsSuffixes(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	line := []rune("stage users 1 em")
	newLine, length := c.Do(line, len(line))
	if length != 2 {
		t.Errorf("expected prefix length 2, got %d", length)
	}
	if len(newLine) != 1 || string(newLine[0]) != "ail " {
		t.Errorf("expected [\"ail \"], got %q", newLine)
	}
}

func TestDoCompletesPluginOff(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	line := []rune("plugin off ")
	newLine, _ := c.Do(line, len(line))
	if len(newLine) != 0 {
		t.Errorf("expected no candidates with no plugins enabled, got %q", newLine)
	}
	_ = c.sess.Execute("plugin softdelete")
	newLine, _ = c.Do(line, len(line))
	if len(newLine) != 1 || string(newLine[0]) != "softdelete " {
		t.Errorf("expected softdelete, got %q", newLine)
	}
}

// --- Helpers ---

func TestLastToken(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"a b c":  "c",
		"x,y":    "y",
		"single": "single",
		"ends ":  "",
	}
	for in, want := range tests {
		if got := lastToken(in); got != want {
			t.Errorf("lastToken(%q) = %q, want %q", in, got, want)
		}
	}
}
