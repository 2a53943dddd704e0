package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ergochat/readline"
	"go.uber.org/zap"

	"github.com/bawdo/casebulk/bulk"
	"github.com/bawdo/casebulk/managers"
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/schema"
	"github.com/bawdo/casebulk/visitors"
)

var errNotConnected = errors.New("not connected (use 'connect <dsn>' first)")

// stagedRow is a pending update of one row. Columns that were not staged
// keep their current value.
type stagedRow struct {
	pk     any
	values map[string]any // column -> literal or node
}

func (r *stagedRow) PrimaryKey() any { return r.pk }

func (r *stagedRow) Value(f *schema.Field) any {
	if v, ok := r.values[f.Column]; ok {
		return v
	}
	return nodes.F(f.Column)
}

// Session holds the REPL state: registered models, staged row updates, the
// active engine and connection, and any enabled plugins.
type Session struct {
	models      map[string]*schema.Model
	staged      map[string][]*stagedRow
	stageOrder  []string // tables in the order they were first staged
	engine      string
	batchSize   int
	plugins     pluginRegistry
	configurers []pluginConfigurer // all known plugins
	commands    []command          // REPL verbs
	conn        *dbConn            // nil when disconnected
	lastDSN     string             // remembers the previous DSN for reconnect
	rl          *readline.Instance
	log         *zap.Logger
	ctx         context.Context
	out         io.Writer // destination for REPL output (default os.Stdout)
}

// NewSession creates a session with the given SQL dialect.
func NewSession(engine string, rl *readline.Instance) *Session {
	s := &Session{
		models: make(map[string]*schema.Model),
		staged: make(map[string][]*stagedRow),
		rl:     rl,
		log:    zap.NewNop(),
		ctx:    context.Background(),
		out:    os.Stdout,
	}
	s.configurers = []pluginConfigurer{
		{name: "softdelete", configure: configureSoftdelete},
	}
	s.setEngine(engine)
	s.initCommands()
	return s
}

// pluginNames returns the names of all known plugins (for tab completion).
func (s *Session) pluginNames() []string {
	names := make([]string, len(s.configurers))
	for i, c := range s.configurers {
		names[i] = c.name
	}
	return names
}

func (s *Session) setEngine(engine string) {
	switch engine {
	case "mysql", "sqlite":
		s.engine = engine
	default:
		s.engine = "postgres"
	}
}

// newVisitor returns a fresh parameterising visitor for the engine.
func (s *Session) newVisitor() nodes.Visitor {
	switch s.engine {
	case "mysql":
		return visitors.NewMySQLVisitor()
	case "sqlite":
		return visitors.NewSQLiteVisitor()
	default:
		return visitors.NewPostgresVisitor()
	}
}

func (s *Session) updater(m *schema.Model, v nodes.Visitor, tx bulk.Transactor) *bulk.Updater {
	return bulk.New(m, v, tx, bulk.WithLogger(s.log), bulk.WithTransformers(s.plugins.transformers()...))
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if cmd, at, ok := s.lookup(line); ok {
		return cmd.invoke(line, at)
	}
	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// --- Command handlers ---

// cmdTable registers a model:
//
//	table <name> [pk=<col>] [<col>[:<type>] ...]
//
// With no columns the table's columns are read from the connected database.
func (s *Session) cmdTable(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return errors.New("usage: table <name> [pk=<col>] [<col>[:<type>] ...]")
	}
	name, pk := parts[0], "id"
	var cols []schemaColumn
	for _, p := range parts[1:] {
		if strings.HasPrefix(strings.ToLower(p), "pk=") {
			pk = p[3:]
			continue
		}
		col, typ, _ := strings.Cut(p, ":")
		t := nodes.OutputType(strings.ToLower(typ))
		if typ != "" && !t.Known() {
			return fmt.Errorf("unknown type %q for column %s", typ, col)
		}
		cols = append(cols, schemaColumn{name: col, dataType: string(t)})
	}
	if len(cols) == 0 {
		if s.conn == nil {
			return fmt.Errorf("no columns given for %s and not connected to read them", name)
		}
		for _, c := range s.conn.schemaColumns(name) {
			cols = append(cols, schemaColumn{name: c.name, dataType: string(outputType(c.dataType))})
		}
		if len(cols) == 0 {
			return fmt.Errorf("table %s has no columns", name)
		}
	}

	fields := make([]*schema.Field, 0, len(cols)+1)
	seenPK := false
	for _, c := range cols {
		f := &schema.Field{Column: c.name, Type: nodes.OutputType(c.dataType), PK: c.name == pk}
		seenPK = seenPK || f.PK
		fields = append(fields, f)
	}
	if !seenPK {
		fields = append([]*schema.Field{{Column: pk, PK: true}}, fields...)
	}
	m, err := schema.NewModel(name, fields)
	if err != nil {
		return err
	}
	s.models[name] = m
	_, _ = fmt.Fprintf(s.out, "  Registered table %q (pk %s, %d columns)\n", name, pk, len(fields))
	return nil
}

func (s *Session) cmdTables() error {
	if len(s.models) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No tables registered")
		return nil
	}
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := s.models[name]
		cols := make([]string, len(m.Fields))
		for i, f := range m.Fields {
			cols[i] = f.Column
			if f.Type.Known() {
				cols[i] += ":" + string(f.Type)
			}
			if f.PK {
				cols[i] += " (pk)"
			}
		}
		_, _ = fmt.Fprintf(s.out, "  %s: %s\n", name, strings.Join(cols, ", "))
	}
	return nil
}

func (s *Session) model(name string) (*schema.Model, error) {
	m, ok := s.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown table %q (register with 'table %s' first)", name, name)
	}
	return m, nil
}

// cmdStage queues an update of one row:
//
//	stage <table> <pk> <col> = <expr>[, <col> = <expr> ...]
//
// Staging the same key again merges the assignments.
func (s *Session) cmdStage(args string) error {
	tokens := tokenize(args)
	if len(tokens) < 5 {
		return errors.New("usage: stage <table> <pk> <col> = <expr>[, ...]")
	}
	m, err := s.model(tokens[0])
	if err != nil {
		return err
	}
	pk, err := parseValue(tokens[1])
	if err != nil {
		return fmt.Errorf("primary key: %w", err)
	}
	if pk == nil {
		return errors.New("primary key must not be null")
	}

	values := make(map[string]any)
	for _, group := range splitTokens(tokens[2:]) {
		if len(group) < 3 || group[1] != "=" {
			return fmt.Errorf("expected <col> = <expr>, got %q", strings.Join(group, " "))
		}
		f, err := m.Lookup(group[0])
		if err != nil {
			return err
		}
		if f[0].PK {
			return fmt.Errorf("cannot update primary key column %s", f[0].Column)
		}
		v, err := parseValueExpr(group[2:])
		if err != nil {
			return fmt.Errorf("%s: %w", group[0], err)
		}
		values[f[0].Column] = v
	}

	table := m.Table.Name
	for _, r := range s.staged[table] {
		if r.pk == pk {
			for k, v := range values {
				r.values[k] = v
			}
			_, _ = fmt.Fprintf(s.out, "  Merged into staged row %v of %s\n", pk, table)
			return nil
		}
	}
	if _, ok := s.staged[table]; !ok {
		s.stageOrder = append(s.stageOrder, table)
	}
	s.staged[table] = append(s.staged[table], &stagedRow{pk: pk, values: values})
	_, _ = fmt.Fprintf(s.out, "  Staged row %v of %s (%d pending)\n", pk, table, len(s.staged[table]))
	return nil
}

// stagedFields returns the staged columns of table, in model order.
func (s *Session) stagedFields(m *schema.Model) []string {
	used := make(map[string]bool)
	for _, r := range s.staged[m.Table.Name] {
		for c := range r.values {
			used[c] = true
		}
	}
	var out []string
	for _, f := range m.Fields {
		if used[f.Column] {
			out = append(out, f.Column)
		}
	}
	return out
}

func (s *Session) stagedEntities(table string) []schema.Entity {
	rows := s.staged[table]
	out := make([]schema.Entity, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func (s *Session) cmdStaged() error {
	if len(s.stageOrder) == 0 {
		_, _ = fmt.Fprintln(s.out, "  Nothing staged")
		return nil
	}
	for _, table := range s.stageOrder {
		scope := s.models[table].Scope()
		_, _ = fmt.Fprintf(s.out, "  %s:\n", table)
		for _, r := range s.staged[table] {
			cols := make([]string, 0, len(r.values))
			for c := range r.values {
				cols = append(cols, c)
			}
			sort.Strings(cols)
			parts := make([]string, len(cols))
			for i, c := range cols {
				parts[i] = c + " = " + valueSummary(r.values[c], scope)
			}
			_, _ = fmt.Fprintf(s.out, "    %v: %s\n", r.pk, strings.Join(parts, ", "))
		}
	}
	return nil
}

func (s *Session) cmdUnstage(args string) error {
	table := strings.TrimSpace(args)
	if table == "" {
		s.staged = make(map[string][]*stagedRow)
		s.stageOrder = nil
		_, _ = fmt.Fprintln(s.out, "  Cleared all staged rows")
		return nil
	}
	if _, ok := s.staged[table]; !ok {
		return fmt.Errorf("nothing staged for %s", table)
	}
	s.dropStaged(table)
	_, _ = fmt.Fprintf(s.out, "  Cleared staged rows of %s\n", table)
	return nil
}

func (s *Session) dropStaged(table string) {
	delete(s.staged, table)
	for i, t := range s.stageOrder {
		if t == table {
			s.stageOrder = append(s.stageOrder[:i], s.stageOrder[i+1:]...)
			break
		}
	}
}

// cmdSQL prints the statements a flush would run, without running them.
func (s *Session) cmdSQL() error {
	if len(s.stageOrder) == 0 {
		return errors.New("nothing staged (use 'stage <table> <pk> <col> = <expr>')")
	}
	for _, table := range s.stageOrder {
		m := s.models[table]
		fv := visitors.NewFormattingVisitor(s.newVisitor())
		stmts, err := s.updater(m, fv, nil).Plan(s.stagedEntities(table), s.stagedFields(m), s.batchSize)
		if err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
		for _, st := range stmts {
			_, _ = fmt.Fprintf(s.out, "-- %s batch %d (rows %d-%d)\n%s;\n", table, st.Batch+1, st.Span.Lo+1, st.Span.Hi, st.SQL)
			if len(st.Params) > 0 {
				_, _ = fmt.Fprintf(s.out, "-- params: %s\n", formatParams(st.Params))
			}
		}
	}
	return nil
}

// cmdFlush writes every staged table with one bulk update each. A table
// whose update fails keeps its staged rows.
func (s *Session) cmdFlush() error {
	if s.conn == nil {
		return errNotConnected
	}
	if s.conn.engine != s.engine {
		_, _ = fmt.Fprintf(s.out, "  Warning: connected to %s but engine is set to %s\n", s.conn.engine, s.engine)
	}
	if len(s.stageOrder) == 0 {
		_, _ = fmt.Fprintln(s.out, "  Nothing staged")
		return nil
	}
	for _, table := range append([]string(nil), s.stageOrder...) {
		m := s.models[table]
		entities := s.stagedEntities(table)
		u := s.updater(m, s.newVisitor(), s.conn.tx)
		if err := u.BulkUpdate(s.ctx, entities, s.stagedFields(m), s.batchSize); err != nil {
			var execErr *bulk.ExecutionError
			if errors.As(err, &execErr) {
				return fmt.Errorf("%s: batch %d failed, nothing written: %w", table, execErr.Batch+1, execErr.Err)
			}
			return fmt.Errorf("%s: %w", table, err)
		}
		s.dropStaged(table)
		_, _ = fmt.Fprintf(s.out, "  Updated %d row(s) of %s\n", len(entities), table)
	}
	return nil
}

// cmdShow prints a table's rows, with enabled plugins applied:
//
//	show <table> [where <expr> <op> <expr>]
func (s *Session) cmdShow(args string) error {
	if s.conn == nil {
		return errNotConnected
	}
	name, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	m, err := s.model(name)
	if err != nil {
		return err
	}
	q := managers.NewSelectManager(m.Table).WithScope(m.Scope()).Order(nodes.F("pk").Asc())
	rest = strings.TrimSpace(rest)
	if rest != "" {
		if !strings.HasPrefix(strings.ToLower(rest), "where ") {
			return errors.New("usage: show <table> [where <condition>]")
		}
		cond, err := parseCondition(tokenize(rest[len("where "):]))
		if err != nil {
			return err
		}
		q.Where(cond)
	}
	for _, t := range s.plugins.transformers() {
		q.Use(t)
	}
	query, params, err := q.ToSQL(s.newVisitor())
	if err != nil {
		return err
	}
	result, err := s.conn.execQuery(s.ctx, query, params)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

// cmdRaw runs a statement verbatim, for setting up tables by hand.
func (s *Session) cmdRaw(args string) error {
	if s.conn == nil {
		return errNotConnected
	}
	stmt := strings.TrimSpace(args)
	if stmt == "" {
		return errors.New("usage: raw <sql>")
	}
	lower := strings.ToLower(stmt)
	if strings.HasPrefix(lower, "select") || strings.HasPrefix(lower, "with") {
		result, err := s.conn.execQuery(s.ctx, stmt, nil)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(s.out, result)
		return nil
	}
	res, err := s.conn.db.ExecContext(s.ctx, stmt)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		_, _ = fmt.Fprintf(s.out, "  %d row(s) affected\n", n)
	}
	if err := s.conn.refreshSchema(); err != nil {
		s.log.Warn("schema refresh failed", zap.Error(err))
	}
	return nil
}

func (s *Session) cmdBatch(args string) error {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 0 {
		return errors.New("usage: batch <n> (0 sizes batches to the parameter limit)")
	}
	s.batchSize = n
	if n == 0 {
		_, _ = fmt.Fprintln(s.out, "  Batch size: auto")
	} else {
		_, _ = fmt.Fprintf(s.out, "  Batch size: %d\n", n)
	}
	return nil
}

func (s *Session) cmdEngine(args string) error {
	engine := strings.ToLower(strings.TrimSpace(args))
	if !isValidEngine(engine) {
		return fmt.Errorf("unknown engine %q (postgres, mysql, sqlite)", engine)
	}
	s.setEngine(engine)
	_, _ = fmt.Fprintf(s.out, "  Engine: %s\n", s.engine)
	return nil
}

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)

	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", sanitizeDSN(s.conn.dsn))
	}

	if dsn != "" {
		return s.connectWithDSN(dsn)
	}

	if s.lastDSN != "" {
		choice := prompt(s.rl, fmt.Sprintf("Reconnect to %s? (y/n/setup)", sanitizeDSN(s.lastDSN)), "y")
		switch strings.ToLower(choice) {
		case "y", "yes":
			return s.connectWithDSN(s.lastDSN)
		case "s", "setup":
			return s.connectViaWizard()
		default:
			_, _ = fmt.Fprintln(s.out, "  Connect cancelled")
			return nil
		}
	}

	return s.connectViaWizard()
}

func (s *Session) connectWithDSN(dsn string) error {
	conn, err := connect(s.ctx, s.log, s.engine, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	s.log.Info("connected", zap.String("engine", s.engine), zap.String("dsn", sanitizeDSN(dsn)))
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", sanitizeDSN(dsn), s.engine)
	return nil
}

func (s *Session) connectViaWizard() error {
	dsn := askDSN(s.rl, s.engine)
	if dsn == "" {
		_, _ = fmt.Fprintln(s.out, "  Connect cancelled")
		return nil
	}
	return s.connectWithDSN(dsn)
}

// close warns about unflushed rows and drops the connection.
func (s *Session) close() {
	if n := len(s.stageOrder); n > 0 {
		s.log.Warn("discarding staged rows", zap.Strings("tables", s.stageOrder))
		_, _ = fmt.Fprintf(s.out, "  Discarding staged rows of %d table(s)\n", n)
	}
	if s.conn != nil {
		_ = s.conn.close()
		s.conn = nil
	}
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := sanitizeDSN(s.conn.dsn)
	if err := s.conn.close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.conn = nil
	_, _ = fmt.Fprintf(s.out, "  Disconnected from %s\n", dsn)
	return nil
}

func (s *Session) cmdPlugin(args string) error {
	args = strings.TrimSpace(args)
	if strings.HasPrefix(strings.ToLower(args), "off") {
		name := strings.TrimSpace(args[3:])
		if !s.plugins.disable(name) {
			return fmt.Errorf("plugin %q is not enabled", name)
		}
		if name == "" {
			_, _ = fmt.Fprintln(s.out, "  All plugins disabled")
		} else {
			_, _ = fmt.Fprintf(s.out, "  Plugin %s disabled\n", name)
		}
		return nil
	}
	name, rest, _ := strings.Cut(args, " ")
	for _, c := range s.configurers {
		if c.name == strings.ToLower(name) {
			return c.configure(s, rest)
		}
	}
	return fmt.Errorf("unknown plugin %q (available: %s)", name, strings.Join(s.pluginNames(), ", "))
}

func (s *Session) cmdPlugins() {
	if len(s.plugins.entries) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No plugins enabled")
		return
	}
	for _, e := range s.plugins.entries {
		_, _ = fmt.Fprintf(s.out, "  %s (%s)\n", e.name, e.status())
	}
}

func (s *Session) cmdStatus() {
	_, _ = fmt.Fprintf(s.out, "  Engine: %s\n", s.engine)
	if s.batchSize == 0 {
		_, _ = fmt.Fprintln(s.out, "  Batch size: auto")
	} else {
		_, _ = fmt.Fprintf(s.out, "  Batch size: %d\n", s.batchSize)
	}
	staged := 0
	for _, rows := range s.staged {
		staged += len(rows)
	}
	_, _ = fmt.Fprintf(s.out, "  Staged rows: %d\n", staged)
	for _, entry := range s.plugins.entries {
		_, _ = fmt.Fprintf(s.out, "  Plugin: %s (%s)\n", entry.name, entry.status())
	}
	if s.conn != nil {
		_, _ = fmt.Fprintf(s.out, "  Connected: %s (%s)\n", sanitizeDSN(s.conn.dsn), s.conn.engine)
	}
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Tables:
    table <name> [pk=<col>] [<col>[:<type>] ...]
                              Register a table (columns read from the database if omitted)
    tables                    List registered tables

  Staging:
    stage <table> <pk> <col> = <expr>[, ...]
                              Queue an update of one row; <expr> may use columns, e.g. qty * 2
    staged                    List staged rows
    unstage [table]           Drop staged rows (all tables if none given)
    batch <n>                 Rows per statement (0 = fit the parameter limit)
    sql                       Show the UPDATE statements a flush would run
    flush                     Run one bulk update per staged table, in a transaction

  Database:
    connect [dsn]             Connect (wizard if no DSN)
    disconnect                Close the connection
    show <table> [where <cond>]  Print a table's rows
    raw <sql>                 Run a statement verbatim

  Settings:
    engine <name>             postgres, mysql or sqlite
    plugin softdelete [col | col on t1 t2 | t1.col, t2.col]
    plugin off [name]         Disable one or all plugins
    plugins                   List enabled plugins
    status                    Show session settings

    help                      Show this help
    exit / quit               Leave`)
}

// valueSummary renders a staged value for display. Expressions are
// resolved against scope when one is given.
func valueSummary(v any, scope *nodes.Scope) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case nodes.Node:
		if scope != nil {
			if r, err := nodes.Resolve(x, scope); err == nil {
				x = r
			}
		}
		sql, _, err := managers.Compile(visitors.NewSQLiteVisitor(visitors.WithoutParams()), x)
		if err != nil {
			return fmt.Sprintf("%T", x)
		}
		return sql
	default:
		return fmt.Sprint(x)
	}
}

func formatParams(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = valueSummary(p, nil)
	}
	return strings.Join(parts, ", ")
}
