package main

import (
	"maps"
	"slices"
	"strings"
)

// completionContext is what the word under the cursor should complete to.
type completionContext int

const (
	contextCommand   completionContext = iota // first word of the line
	contextNone                               // free text, nothing to offer
	contextTableName                          // after table/stage/show/unstage
	contextColumn                             // column of the table being staged
	contextEngine                             // after engine
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
)

var engineNames = []string{"mysql", "postgres", "sqlite"}

// replCompleter implements readline.AutoCompleter.
type replCompleter struct {
	sess *Session
}

// Do returns, for each candidate, the text to append after the cursor and
// the length in runes of the word being completed.
func (c *replCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	ctx, word := c.parseContext(text)
	var out [][]rune
	for _, cand := range c.candidates(ctx, text, word) {
		out = append(out, []rune(cand[len(word):]+" "))
	}
	return out, len([]rune(word))
}

func (c *replCompleter) candidates(ctx completionContext, line, word string) []string {
	switch ctx {
	case contextCommand:
		return c.completeCommands(word)
	case contextTableName:
		return c.completeTableNames(word)
	case contextColumn:
		return c.completeColumns(stageTable(line), word)
	case contextEngine:
		return filterPrefix(engineNames, word)
	case contextPlugin:
		return filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), word)
	case contextPluginOff:
		return filterPrefix(c.sess.plugins.names(), word)
	}
	return nil
}

// parseContext finds the command the line starts with and lets its
// completer classify the rest. Commands that take no arguments complete
// nothing once typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	if cmd, at, ok := c.sess.lookup(line); ok && at > len(cmd.name) {
		if cmd.complete == nil {
			return contextNone, ""
		}
		return cmd.complete(line[at:])
	}
	return contextCommand, strings.TrimSpace(line)
}

// stageTable returns the table named by a partial stage command.
func stageTable(line string) string {
	if words := strings.Fields(line); len(words) > 1 {
		return words[1]
	}
	return ""
}

func (c *replCompleter) completeCommands(word string) []string {
	return filterPrefix(c.sess.commandNames(), word)
}

// completeTableNames offers registered tables and, when connected, the
// database's tables.
func (c *replCompleter) completeTableNames(word string) []string {
	names := slices.Collect(maps.Keys(c.sess.models))
	if c.sess.conn != nil {
		names = append(names, c.sess.conn.schemaTables()...)
	}
	slices.Sort(names)
	return filterPrefix(slices.Compact(names), word)
}

// completeColumns offers the non-key columns of a registered table.
func (c *replCompleter) completeColumns(table, word string) []string {
	m, ok := c.sess.models[table]
	if !ok {
		return nil
	}
	var cols []string
	for _, f := range m.NonKeyFields() {
		cols = append(cols, f.Column)
	}
	return filterPrefix(cols, word)
}

// filterPrefix returns the items starting with prefix, ignoring case.
func filterPrefix(items []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), prefix) {
			out = append(out, item)
		}
	}
	return out
}

// lastToken returns the text after the last space, tab or comma.
func lastToken(s string) string {
	return s[strings.LastIndexAny(s, " \t,")+1:]
}
