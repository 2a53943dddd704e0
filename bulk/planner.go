// Package bulk writes many rows in few round trips. For each batch of
// entities it renders one statement of the form
//
//	UPDATE "t" SET "a" = CASE "t"."id" WHEN $1 THEN $2 ... END, ...
//	WHERE "t"."id" IN (...)
//
// and runs every batch inside a single transaction.
package bulk

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/bawdo/casebulk/managers"
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/plugins"
	"github.com/bawdo/casebulk/schema"
)

// Statement is one rendered batch.
type Statement struct {
	Batch  int
	Span   Span
	SQL    string
	Params []any
}

// Updater bulk updates the rows of one model. An Updater reuses its visitor
// between statements and is not safe for concurrent use.
type Updater struct {
	model        *schema.Model
	visitor      nodes.Visitor
	tx           Transactor
	sizer        BatchSizer
	maxParams    int // 0 when the visitor has no limit
	transformers []plugins.Transformer
	log          *zap.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(u *Updater) { u.log = l }
}

// WithBatchSizer overrides how batch sizes are chosen when BulkUpdate is
// called with batchSize 0.
func WithBatchSizer(s BatchSizer) Option {
	return func(u *Updater) { u.sizer = s }
}

// WithTransformers applies the given transformers to every batch statement.
func WithTransformers(ts ...plugins.Transformer) Option {
	return func(u *Updater) { u.transformers = append(u.transformers, ts...) }
}

// New creates an Updater. Batches are sized to the visitor's bound-parameter
// limit unless WithBatchSizer says otherwise. tx may be nil for an Updater
// that only plans.
func New(model *schema.Model, v nodes.Visitor, tx Transactor, opts ...Option) *Updater {
	u := &Updater{model: model, visitor: v, tx: tx, log: zap.NewNop()}
	if l, ok := v.(paramLimiter); ok {
		u.maxParams = l.MaxParams()
		u.sizer = ParamBudget{MaxParams: u.maxParams}
	} else {
		u.sizer = ParamBudget{}
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// plan is the validated input of one bulk update.
type plan struct {
	entities []schema.Entity
	fields   []*schema.Field
	keys     []any
	spans    []Span
}

func (u *Updater) prepare(entities []schema.Entity, fieldNames []string, batchSize int) (*plan, error) {
	if batchSize < 0 {
		return nil, ErrNegativeBatchSize
	}
	if u.model.Inherited() {
		return nil, &UnsupportedSchemaError{Model: u.model.Name, Parents: u.model.Parents}
	}
	if len(entities) == 0 {
		return nil, nil
	}
	keys := make([]any, len(entities))
	for i, e := range entities {
		if keys[i] = e.PrimaryKey(); keys[i] == nil {
			return nil, &MissingKeyError{Index: i}
		}
	}
	fields, err := u.model.Lookup(fieldNames...)
	if err != nil {
		return nil, err
	}
	if batchSize == 0 {
		batchSize = u.sizer.BatchSize(len(fields))
	}
	return &plan{
		entities: entities,
		fields:   fields,
		keys:     keys,
		spans:    Partition(len(entities), batchSize),
	}, nil
}

// statement renders the entities of span as batch i. The update lists go
// into the manager unresolved; Build resolves the whole statement once.
func (u *Updater) statement(p *plan, i int, span Span) (Statement, error) {
	batch := p.entities[span.Lo:span.Hi]

	m := managers.NewUpdateManager(u.model.Table).WithScope(u.model.Scope())
	for _, f := range p.fields {
		list, err := updateList(u.model, batch, f)
		if err != nil {
			return Statement{}, err
		}
		m.Set(f.Column, list)
	}
	m.Where(nodes.F("pk").In(p.keys[span.Lo:span.Hi]...))
	for _, t := range u.transformers {
		m.Use(t)
	}
	stmt, err := m.Build()
	if err != nil {
		return Statement{}, err
	}
	sql, params, err := managers.Compile(u.visitor, stmt)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Batch: i, Span: span, SQL: sql, Params: params}, nil
}

// statements renders every batch of p. A batch binding more parameters
// than the visitor allows, as expression values can, is halved until it
// fits or holds one entity.
func (u *Updater) statements(p *plan) ([]Statement, error) {
	pending := slices.Clone(p.spans)
	out := make([]Statement, 0, len(pending))
	for len(pending) > 0 {
		span := pending[0]
		pending = pending[1:]
		stmt, err := u.statement(p, len(out), span)
		if err != nil {
			return nil, err
		}
		if u.maxParams > 0 && len(stmt.Params) > u.maxParams && span.Len() > 1 {
			mid := span.Lo + span.Len()/2
			pending = append([]Span{{Lo: span.Lo, Hi: mid}, {Lo: mid, Hi: span.Hi}}, pending...)
			continue
		}
		out = append(out, stmt)
	}
	return out, nil
}

// Plan renders the statements BulkUpdate would run, without running them.
// Arguments and errors are as for BulkUpdate.
func (u *Updater) Plan(entities []schema.Entity, fields []string, batchSize int) ([]Statement, error) {
	p, err := u.prepare(entities, fields, batchSize)
	if err != nil || p == nil {
		return nil, err
	}
	return u.statements(p)
}

// BulkUpdate writes fields of every entity to the database. fields names
// the fields to write, by Go name or column; none means every non-key
// field. batchSize bounds the entities per statement; 0 lets the batch
// sizer choose.
//
// Every batch runs in one transaction. The first failing batch rolls the
// whole update back and is returned as an *ExecutionError; later batches
// are not issued. An empty entity list is a no-op.
func (u *Updater) BulkUpdate(ctx context.Context, entities []schema.Entity, fields []string, batchSize int) error {
	p, err := u.prepare(entities, fields, batchSize)
	if err != nil || p == nil {
		return err
	}
	stmts, err := u.statements(p)
	if err != nil {
		return err
	}
	log := u.log.With(zap.String("table", u.model.Table.Name))
	err = u.tx.InTx(ctx, func(ctx context.Context, ex Execer) error {
		for _, stmt := range stmts {
			if err := ctx.Err(); err != nil {
				return &ExecutionError{Batch: stmt.Batch, SQL: stmt.SQL, Err: err}
			}
			n, err := ex.Exec(ctx, stmt.SQL, stmt.Params...)
			if err != nil {
				return &ExecutionError{Batch: stmt.Batch, SQL: stmt.SQL, Err: err}
			}
			log.Debug("batch updated",
				zap.Int("batch", stmt.Batch),
				zap.Int("rows", stmt.Span.Len()),
				zap.Int("params", len(stmt.Params)),
				zap.Int64("affected", n))
		}
		return nil
	})
	if err != nil {
		log.Error("bulk update rolled back", zap.Int("entities", len(entities)), zap.Error(err))
		return err
	}
	log.Info("bulk update committed",
		zap.Int("entities", len(entities)),
		zap.Int("batches", len(stmts)),
		zap.Int("fields", len(p.fields)))
	return nil
}
