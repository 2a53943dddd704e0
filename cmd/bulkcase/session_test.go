package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bawdo/casebulk/internal/testutil"
)

// newSession returns a sqlite session with output captured in buf.
func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	sess := NewSession("sqlite", nil)
	buf := &bytes.Buffer{}
	sess.out = buf
	t.Cleanup(sess.close)
	return sess, buf
}

func runCommands(t *testing.T, sess *Session, commands ...string) {
	t.Helper()
	for _, cmd := range commands {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("command %q failed: %v", cmd, err)
		}
	}
}

// connectedSession has table t(id, integer, label) with rows 1..3.
func connectedSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	sess, buf := newSession(t)
	runCommands(t, sess,
		"connect :memory:",
		`raw CREATE TABLE "t" ("id" INTEGER PRIMARY KEY, "integer" INTEGER CHECK ("integer" < 100), "label" TEXT, "deleted_at" TEXT)`,
		`raw INSERT INTO "t" ("id", "integer") VALUES (1, 1), (2, 2), (3, 3)`,
		"table t",
	)
	buf.Reset()
	return sess, buf
}

func queryInts(t *testing.T, sess *Session, query string) []int {
	t.Helper()
	rows, err := sess.conn.db.Query(query)
	testutil.AssertNoError(t, err)
	defer rows.Close()
	var out []int
	for rows.Next() {
		var n int
		testutil.AssertNoError(t, rows.Scan(&n))
		out = append(out, n)
	}
	testutil.AssertNoError(t, rows.Err())
	return out
}

func assertInts(t *testing.T, got []int, want ...int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		testutil.AssertEqual(t, got[i], want[i])
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	sess, _ := newSession(t)
	err := sess.Execute("frobnicate now")
	testutil.AssertError(t, err)
	if !strings.Contains(err.Error(), "unknown command: frobnicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBareCommandNeedingArgsPrintsUsage(t *testing.T) {
	t.Parallel()
	sess, _ := newSession(t)
	for _, line := range []string{"raw", "batch", "SHOW  "} {
		err := sess.Execute(line)
		testutil.AssertError(t, err)
		if !strings.HasPrefix(err.Error(), "usage: ") {
			t.Errorf("%q: expected usage error, got %v", line, err)
		}
	}
	// a word that merely starts with a command name is not that command
	err := sess.Execute("tablespace")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command, got %v", err)
	}
}

func TestTableWithDeclaredColumns(t *testing.T) {
	t.Parallel()
	sess, buf := newSession(t)
	runCommands(t, sess, "table items pk=sku qty:integer name:text", "tables")
	if !strings.Contains(buf.String(), "items: sku (pk), qty:integer, name:text") {
		t.Errorf("unexpected tables output:\n%s", buf.String())
	}
}

func TestTableErrors(t *testing.T) {
	t.Parallel()
	sess, _ := newSession(t)
	testutil.AssertError(t, sess.Execute("table items"))
	testutil.AssertError(t, sess.Execute("table items qty:money"))
}

func TestTableReadsColumnsFromDatabase(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	m := sess.models["t"]
	if m == nil {
		t.Fatal("table t not registered")
	}
	testutil.AssertEqual(t, m.PK.Column, "id")
	testutil.AssertEqual(t, len(m.Fields), 4)
}

func TestStageValidation(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	for _, cmd := range []string{
		"stage nope 1 integer = 2",
		"stage t null integer = 2",
		"stage t 1 id = 2",
		"stage t 1 missing = 2",
		"stage t 1 integer 2",
		"stage t 1 integer = 2 +",
	} {
		if err := sess.Execute(cmd); err == nil {
			t.Errorf("expected %q to fail", cmd)
		}
	}
	testutil.AssertEqual(t, len(sess.stageOrder), 0)
}

func TestStageMergesSameKey(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess,
		"stage t 1 integer = 10",
		"stage t 1 label = 'one'",
		"stage t 2 integer = integer * 2",
		"staged",
	)
	testutil.AssertEqual(t, len(sess.staged["t"]), 2)
	out := buf.String()
	for _, want := range []string{"1: integer = 10, label = 'one'", `2: integer = "t"."integer" * 2`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSQLShowsPlannedStatements(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess,
		"stage t 1 label = 'a'",
		"stage t 2 label = 'b'",
		"stage t 3 integer = 9",
		"batch 2",
		"sql",
	)
	out := buf.String()
	for _, want := range []string{
		"-- t batch 1 (rows 1-2)",
		"-- t batch 2 (rows 3-3)",
		`UPDATE "t"`,
		`SET "integer" = CASE "t"."id"`,
		`WHEN ? THEN "t"."integer"`,
		"-- params: 1, ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	testutil.AssertEqual(t, len(sess.stageOrder), 1)
}

func TestSQLWithNothingStaged(t *testing.T) {
	t.Parallel()
	sess, _ := newSession(t)
	testutil.AssertError(t, sess.Execute("sql"))
}

func TestFlushWritesStagedRows(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess,
		"stage t 1 integer = 10",
		"stage t 2 integer = integer * 2",
		"stage t 3 label = 'three'",
		"flush",
	)
	if !strings.Contains(buf.String(), "Updated 3 row(s) of t") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	assertInts(t, queryInts(t, sess, `SELECT "integer" FROM "t" ORDER BY "id"`), 10, 4, 3)
	assertInts(t, queryInts(t, sess, `SELECT COUNT(*) FROM "t" WHERE "label" = 'three'`), 1)
	testutil.AssertEqual(t, len(sess.stageOrder), 0)
}

func TestFlushFailureKeepsStagedRows(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	runCommands(t, sess,
		"batch 1",
		"stage t 1 integer = 10",
		"stage t 2 integer = 500",
	)
	err := sess.Execute("flush")
	testutil.AssertError(t, err)
	if !strings.Contains(err.Error(), "batch 2 failed") {
		t.Errorf("unexpected error: %v", err)
	}
	assertInts(t, queryInts(t, sess, `SELECT "integer" FROM "t" ORDER BY "id"`), 1, 2, 3)
	testutil.AssertEqual(t, len(sess.staged["t"]), 2)
}

func TestFlushRequiresConnection(t *testing.T) {
	t.Parallel()
	sess, _ := newSession(t)
	runCommands(t, sess, "table t integer:integer", "stage t 1 integer = 2")
	testutil.AssertError(t, sess.Execute("flush"))
}

func TestFlushSkipsSoftDeletedRows(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	runCommands(t, sess,
		`raw UPDATE "t" SET "deleted_at" = 'yesterday' WHERE "id" = 2`,
		"plugin softdelete",
		"stage t 1 integer = 50",
		"stage t 2 integer = 50",
		"flush",
	)
	assertInts(t, queryInts(t, sess, `SELECT "integer" FROM "t" ORDER BY "id"`), 50, 2, 3)
}

func TestShow(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess, "show t where integer >= 2")
	out := buf.String()
	if !strings.Contains(out, "(2 rows)") {
		t.Errorf("expected 2 rows:\n%s", out)
	}
	testutil.AssertError(t, sess.Execute("show t integer > 1"))
}

func TestUnstage(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	runCommands(t, sess, "stage t 1 integer = 5", "unstage t")
	testutil.AssertEqual(t, len(sess.stageOrder), 0)
	testutil.AssertError(t, sess.Execute("unstage t"))
	runCommands(t, sess, "stage t 1 integer = 5", "unstage")
	testutil.AssertEqual(t, len(sess.staged), 0)
}

func TestBatchAndEngine(t *testing.T) {
	t.Parallel()
	sess, _ := newSession(t)
	runCommands(t, sess, "batch 25", "engine mysql")
	testutil.AssertEqual(t, sess.batchSize, 25)
	testutil.AssertEqual(t, sess.engine, "mysql")
	testutil.AssertError(t, sess.Execute("batch -1"))
	testutil.AssertError(t, sess.Execute("engine oracle"))
}

func TestConnectTwiceAndDisconnect(t *testing.T) {
	t.Parallel()
	sess, _ := newSession(t)
	runCommands(t, sess, "connect :memory:")
	err := sess.Execute("connect :memory:")
	if err == nil || !strings.Contains(err.Error(), "already connected") {
		t.Errorf("expected already connected error, got %v", err)
	}
	runCommands(t, sess, "disconnect")
	err = sess.Execute("disconnect")
	if err == nil || !strings.Contains(err.Error(), "not connected") {
		t.Errorf("expected not connected error, got %v", err)
	}
}

func TestPluginCommands(t *testing.T) {
	t.Parallel()
	sess, buf := newSession(t)
	runCommands(t, sess, "plugin softdelete removed_at on t", "plugins")
	if !strings.Contains(buf.String(), "softdelete (column: removed_at, tables: t)") {
		t.Errorf("unexpected plugins output:\n%s", buf.String())
	}
	runCommands(t, sess, "plugin off softdelete")
	testutil.AssertEqual(t, len(sess.plugins.entries), 0)
	testutil.AssertError(t, sess.Execute("plugin off softdelete"))
	testutil.AssertError(t, sess.Execute("plugin opa"))
	testutil.AssertError(t, sess.Execute("plugin softdelete t."))
}

func TestHelpAndStatus(t *testing.T) {
	t.Parallel()
	sess, buf := newSession(t)
	runCommands(t, sess, "help", "status")
	for _, want := range []string{"stage <table> <pk>", "Engine: sqlite", "Batch size: auto"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestParseSoftdelete(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args    string
		summary string
		opts    int
	}{
		{"", "column: deleted_at", 0},
		{"removed_at", "column: removed_at", 1},
		{"removed_at ON users posts", "column: removed_at, tables: users, posts", 2},
		{"posts.removed_at, users.deleted_at", "posts.removed_at, users.deleted_at", 2},
	}
	for _, tc := range tests {
		opts, summary, err := parseSoftdelete(tc.args)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, summary, tc.summary)
		testutil.AssertEqual(t, len(opts), tc.opts)
	}
	for _, bad := range []string{"removed_at users", "removed_at on", "users.", ".col"} {
		if _, _, err := parseSoftdelete(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
