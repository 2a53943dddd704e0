package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/casebulk/plugins"
	"github.com/bawdo/casebulk/plugins/softdelete"
)

const softdeleteUsage = "usage: plugin softdelete [<column> | <column> on <table> ... | <table>.<column>, ...]"

// parseSoftdelete reads the softdelete argument forms:
//
//	(none)                    deleted_at on every table
//	removed_at                one column on every table
//	removed_at on users posts one column on the listed tables
//	users.deleted_at, posts.removed_at
//
// It returns the options and a summary for display.
func parseSoftdelete(args string) ([]softdelete.Option, string, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil, "column: deleted_at", nil
	}

	if strings.Contains(args, ".") {
		var opts []softdelete.Option
		var pairs []string
		for _, pair := range strings.Split(args, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			table, col, ok := strings.Cut(pair, ".")
			if !ok || table == "" || col == "" {
				return nil, "", fmt.Errorf("invalid table.column pair %q", pair)
			}
			opts = append(opts, softdelete.WithTableColumn(table, col))
			pairs = append(pairs, table+"."+col)
		}
		sort.Strings(pairs)
		return opts, strings.Join(pairs, ", "), nil
	}

	words := strings.Fields(args)
	col := words[0]
	if len(words) == 1 {
		return []softdelete.Option{softdelete.WithColumn(col)}, "column: " + col, nil
	}
	if !strings.EqualFold(words[1], "on") || len(words) < 3 {
		return nil, "", errors.New(softdeleteUsage)
	}
	tables := words[2:]
	opts := []softdelete.Option{softdelete.WithColumn(col), softdelete.WithTables(tables...)}
	return opts, fmt.Sprintf("column: %s, tables: %s", col, strings.Join(tables, ", ")), nil
}

// configureSoftdelete enables the softdelete plugin, which guards both the
// rows flush rewrites and the rows show prints.
func configureSoftdelete(s *Session, args string) error {
	opts, summary, err := parseSoftdelete(args)
	if err != nil {
		return err
	}
	s.plugins.enable(plugin{
		name:   "softdelete",
		build:  func() plugins.Transformer { return softdelete.New(opts...) },
		status: func() string { return summary },
	})
	_, _ = fmt.Fprintf(s.out, "  Soft-delete enabled (%s)\n", summary)
	return nil
}
