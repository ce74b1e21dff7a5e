package engine

import (
	"context"
	"fmt"
	"os"
)

// Version of the engine
const Version = "0.3.0"

// Engine is the main entry point: it owns the connection, the executor
// and the debug context, and hands out query and mutation builders.
type Engine struct {
	connector *Connector
	executor  *Executor

	// Debug context
	Debug *DebugContext

	// Mutation factory (abstract, injected)
	mutations MutationFactory
}

// ============================================================
// ENGINE INITIALIZATION
// ============================================================

// NewEngine creates an engine that is not connected yet.
// Debug output follows JOBLY_DEBUG.
func NewEngine() *Engine {
	return &Engine{
		Debug: DebugContextFromEnv(),
	}
}

// NewEngineWithDB creates an engine over an existing database handle
//
// Usage:
//
//	db, _ := sql.Open("pgx", dsn)
//	eng := engine.NewEngineWithDB(db)
//	mutation.Register(eng)
func NewEngineWithDB(db Querier) *Engine {
	eng := NewEngine()
	eng.executor = NewExecutor(db, eng.Debug)
	return eng
}

// WithDebug sets the debug level, writing to stdout
func (e *Engine) WithDebug(level DebugLevel) *Engine {
	e.Debug = &DebugContext{
		Level:       level,
		Writer:      os.Stdout,
		ColorOutput: true,
	}
	if e.executor != nil {
		e.executor = e.executor.WithDebug(e.Debug)
	}
	return e
}

// ─────────────────────────────────────────────────────────────
// Connection handling
// ─────────────────────────────────────────────────────────────

// Version returns the engine version
func (e *Engine) Version() string {
	return Version
}

// Connect establishes a database connection
func (e *Engine) Connect(ctx context.Context, config ConnectorConfig) error {
	e.connector = NewConnector(config)
	if err := e.connector.Connect(ctx); err != nil {
		return err
	}
	e.executor = NewExecutor(e.connector.DB(), e.Debug)
	return nil
}

// Close closes the database connection
func (e *Engine) Close() {
	if e.connector != nil {
		e.connector.Close()
	}
}

// IsConnected returns true if the engine can execute statements
func (e *Engine) IsConnected() bool {
	if e.connector != nil {
		return e.connector.IsConnected()
	}
	return e.executor != nil
}

// Ping verifies the database connection is alive
func (e *Engine) Ping(ctx context.Context) error {
	if e.connector == nil {
		return fmt.Errorf("not connected")
	}
	return e.connector.Ping(ctx)
}

// Executor returns the statement executor, nil before Connect
func (e *Engine) Executor() *Executor {
	return e.executor
}

// ─────────────────────────────────────────────────────────────
// Mutation wiring (NO concrete dependencies)
// ─────────────────────────────────────────────────────────────

// SetMutationFactory injects a mutation factory implementation
func (e *Engine) SetMutationFactory(factory MutationFactory) {
	e.mutations = factory
}

func (e *Engine) ensureMutationFactory() {
	if e.mutations == nil {
		panic(
			"mutation factory not initialized\n" +
				"Call mutation.Register(engine) before building mutations",
		)
	}
}

// Insert starts a new INSERT mutation
func (e *Engine) Insert(table *Table) InsertMutation {
	e.ensureMutationFactory()
	return e.mutations.NewInsert(table, e.executor)
}

// Update starts a new UPDATE mutation
func (e *Engine) Update(table *Table) UpdateMutation {
	e.ensureMutationFactory()
	return e.mutations.NewUpdate(table, e.executor)
}

// Delete starts a new DELETE mutation
func (e *Engine) Delete(table *Table) DeleteMutation {
	e.ensureMutationFactory()
	return e.mutations.NewDelete(table, e.executor)
}
