package main

import (
	"database/sql"
	"fmt"
	"strings"
)

// maxRows caps how many result rows show prints.
const maxRows = 1000

// grid lays out a result set as a boxed text table.
type grid struct {
	header []string
	rows   [][]string
	widths []int
}

func newGrid(header []string) *grid {
	g := &grid{header: header, widths: make([]int, len(header))}
	g.fit(header)
	return g
}

func (g *grid) fit(cells []string) {
	for i, c := range cells {
		g.widths[i] = max(g.widths[i], len(c))
	}
}

func (g *grid) add(row []string) {
	g.fit(row)
	g.rows = append(g.rows, row)
}

func (g *grid) String() string {
	if len(g.header) == 0 {
		return "(0 rows)\n"
	}
	var rule strings.Builder
	rule.WriteByte('+')
	for _, w := range g.widths {
		rule.WriteString(strings.Repeat("-", w+2))
		rule.WriteByte('+')
	}
	rule.WriteByte('\n')

	var b strings.Builder
	line := func(cells []string) {
		b.WriteByte('|')
		for i, c := range cells {
			fmt.Fprintf(&b, " %-*s |", g.widths[i], c)
		}
		b.WriteByte('\n')
	}
	b.WriteString(rule.String())
	line(g.header)
	b.WriteString(rule.String())
	for _, r := range g.rows {
		line(r)
	}
	b.WriteString(rule.String())
	if len(g.rows) == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", len(g.rows))
	}
	return b.String()
}

func formatTable(columns []string, rows [][]string) string {
	g := newGrid(columns)
	for _, r := range rows {
		g.add(r)
	}
	return g.String()
}

// formatRows scans every column as a nullable string and renders the
// result, stopping after maxRows.
func formatRows(rows *sql.Rows) (string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("columns: %w", err)
	}
	g := newGrid(columns)
	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	truncated := false
	for rows.Next() {
		if len(g.rows) == maxRows {
			truncated = true
			break
		}
		if err := rows.Scan(dest...); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = "NULL"
			if c.Valid {
				row[i] = c.String
			}
		}
		g.add(row)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows: %w", err)
	}
	out := g.String()
	if truncated {
		out += fmt.Sprintf("(truncated at %d rows)\n", maxRows)
	}
	return out, nil
}
