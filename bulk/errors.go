package bulk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNegativeBatchSize is returned when an explicit batch size is below zero.
var ErrNegativeBatchSize = errors.New("casebulk: batch size must not be negative")

// MissingKeyError reports an entity with no primary key. Unsaved entities
// cannot be targeted by an UPDATE.
type MissingKeyError struct {
	Index int // position of the entity in the input slice
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("casebulk: entity %d has no primary key", e.Index)
}

// UnsupportedSchemaError reports a model whose columns span several tables.
type UnsupportedSchemaError struct {
	Model   string
	Parents []string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("casebulk: cannot bulk update %s: inherited from %s",
		e.Model, strings.Join(e.Parents, ", "))
}

// ExecutionError wraps the backend failure of one batch. No later batch was
// issued. Under DBTransactor and PgxTransactor the whole update has been
// rolled back; under TxTransactor the caller's transaction is left for the
// caller to roll back.
type ExecutionError struct {
	Batch int
	SQL   string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("casebulk: batch %d: %v", e.Batch, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
