package mutation

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jobly-api/jobly/pkg/engine"
)

// Helper: jobs table fixture
func testTable() *engine.Table {
	return &engine.Table{
		Name:   "jobs",
		Entity: "job",
		Columns: []*engine.Column{
			{Field: "id", Name: "id", Type: engine.FieldTypeInt, PrimaryKey: true, Generated: true},
			{Field: "title", Name: "title", Type: engine.FieldTypeString},
			{Field: "salary", Name: "salary", Type: engine.FieldTypeInt, Nullable: true, Min: engine.Bound(0)},
			{Field: "equity", Name: "equity", Type: engine.FieldTypeDecimal, Nullable: true, Min: engine.Bound(0), Max: engine.Bound(1)},
			{Field: "companyHandle", Name: "company_handle", Type: engine.FieldTypeString, Immutable: true},
		},
	}
}

func newMockExecutor(t *testing.T) (*engine.Executor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return engine.NewExecutor(db, nil), mock
}

// ============================================================
// INSERT BUILDER TESTS
// ============================================================

func TestInsertBuilder_Set(t *testing.T) {
	builder := NewInsertBuilder(testTable(), nil)

	// Test chainable API
	result := builder.Set("title", "Dev").Set("companyHandle", "acme")

	if result != builder {
		t.Error("Set() should return builder for chaining")
	}

	if v, _ := builder.values.Get("title"); v != "Dev" {
		t.Errorf("Expected title='Dev', got '%v'", v)
	}
}

func TestInsertBuilder_DryRun(t *testing.T) {
	builder := NewInsertBuilder(testTable(), nil)

	if builder.DryRun() != builder {
		t.Error("DryRun() should return builder")
	}

	if !builder.dryRun {
		t.Error("DryRun flag not set")
	}
}

func TestInsertBuilder_Build(t *testing.T) {
	builder := NewInsertBuilder(testTable(), nil)
	builder.
		Set("title", "Dev").
		Set("salary", int64(100)).
		Set("equity", "0.5").
		Set("companyHandle", "acme").
		Returning("id", "title", "salary", "equity", "companyHandle")

	stmt, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	want := `INSERT INTO "jobs" ("title", "salary", "equity", "company_handle") VALUES ($1, $2, $3, $4) ` +
		`RETURNING "id", "title", "salary", "equity", "company_handle"`
	if stmt.SQL != want {
		t.Errorf("SQL mismatch\n got: %s\nwant: %s", stmt.SQL, want)
	}

	if len(stmt.Args) != 4 || stmt.Args[3] != "acme" {
		t.Errorf("unexpected args: %#v", stmt.Args)
	}
}

func TestInsertBuilder_Build_Empty(t *testing.T) {
	_, err := NewInsertBuilder(testTable(), nil).Build()
	if !engine.IsInvalidInput(err) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestInsertBuilder_Build_UnknownField(t *testing.T) {
	builder := NewInsertBuilder(testTable(), nil)
	builder.Set("unknown_field", "value")

	_, err := builder.Build()

	var unknown *engine.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Errorf("Build() should fail for unknown field, got %v", err)
	}
}

func TestInsertBuilder_Build_MissingRequired(t *testing.T) {
	builder := NewInsertBuilder(testTable(), nil)
	builder.Set("title", "Dev")

	_, err := builder.Build()

	var notNull *engine.NotNullError
	if !errors.As(err, &notNull) || notNull.Field != "companyHandle" {
		t.Errorf("expected companyHandle to be required, got %v", err)
	}
}

func TestInsertBuilder_Build_GeneratedID(t *testing.T) {
	builder := NewInsertBuilder(testTable(), nil)
	builder.Set("id", int64(7)).Set("title", "Dev").Set("companyHandle", "acme")

	if _, err := builder.Build(); err == nil {
		t.Error("Build() should reject a generated column")
	}
}

func TestInsertBuilder_Execute(t *testing.T) {
	ex, mock := newMockExecutor(t)

	mock.ExpectQuery(`INSERT INTO "jobs" ("title", "company_handle") VALUES ($1, $2) RETURNING "id"`).
		WithArgs("Dev", "acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	result, err := NewInsertBuilder(testTable(), ex).
		Set("title", "Dev").
		Set("companyHandle", "acme").
		Returning("id").
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if result.Type != engine.MutationInsert || result.Affected != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Rows[0].Int("id") != 11 {
		t.Errorf("expected id 11, got %v", result.Rows[0]["id"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertBuilder_DryRun_NoExecution(t *testing.T) {
	builder := NewInsertBuilder(testTable(), nil)
	builder.Set("title", "Dev")
	builder.Set("companyHandle", "acme")
	builder.DryRun()

	result, err := builder.Execute(context.Background())

	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !result.DryRun {
		t.Error("Result should have DryRun=true")
	}
	if result.Statement == nil || result.Statement.SQL == "" {
		t.Error("dry run should still carry the statement")
	}
}

func TestInsertBuilder_Execute_NotConnected(t *testing.T) {
	_, err := NewInsertBuilder(testTable(), nil).
		Set("title", "Dev").
		Set("companyHandle", "acme").
		Execute(context.Background())
	if err == nil {
		t.Error("Execute() without executor should fail")
	}
}

// ============================================================
// UPDATE BUILDER TESTS
// ============================================================

func TestUpdateBuilder_Filter_And_Set(t *testing.T) {
	builder := NewUpdateBuilder(testTable(), nil)

	builder.Filter("id", 1).Set("title", "Dev").Set("salary", 30)

	if len(builder.filters) != 1 {
		t.Error("Filter not added")
	}

	if builder.updates.Len() != 2 {
		t.Errorf("Expected 2 updates, got %d", builder.updates.Len())
	}
}

func TestUpdateBuilder_Build(t *testing.T) {
	builder := NewUpdateBuilder(testTable(), nil)
	builder.
		Set("title", "Senior Dev").
		Set("salary", int64(120000)).
		Filter("id", int64(5)).
		Returning("id", "title")

	stmt, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	want := `UPDATE "jobs" SET "title"=$1, "salary"=$2 WHERE "id" = $3 RETURNING "id", "title"`
	if stmt.SQL != want {
		t.Errorf("SQL mismatch\n got: %s\nwant: %s", stmt.SQL, want)
	}

	if len(stmt.Args) != 3 || stmt.Args[2] != int64(5) {
		t.Errorf("unexpected args: %#v", stmt.Args)
	}
}

func TestUpdateBuilder_Build_Empty(t *testing.T) {
	builder := NewUpdateBuilder(testTable(), nil)
	builder.Filter("id", 1)

	_, err := builder.Build()

	var invalid *engine.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidInputError, got %v", err)
	}
}

func TestUpdateBuilder_Build_NoFilter(t *testing.T) {
	builder := NewUpdateBuilder(testTable(), nil)
	builder.Set("title", "Dev")

	_, err := builder.Build()

	var safety *engine.SafetyError
	if !errors.As(err, &safety) {
		t.Errorf("Build() should fail without filter (safety guard), got %v", err)
	}
}

func TestUpdateBuilder_Build_ForceAll(t *testing.T) {
	builder := NewUpdateBuilder(testTable(), nil)
	builder.Set("salary", nil).ForceAll()

	stmt, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() with ForceAll should succeed: %v", err)
	}

	if stmt.SQL != `UPDATE "jobs" SET "salary"=$1` {
		t.Errorf("unexpected SQL: %s", stmt.SQL)
	}
}

func TestUpdateBuilder_Build_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"primary key", "id", int64(2)},
		{"immutable company", "companyHandle", "other"},
		{"negative salary", "salary", int64(-1)},
		{"equity above one", "equity", 1.5},
		{"title not nullable", "title", nil},
		{"salary wrong type", "salary", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewUpdateBuilder(testTable(), nil)
			builder.Filter("id", 1).Set(tt.field, tt.value)

			if _, err := builder.Build(); err == nil {
				t.Errorf("Build() should reject %s=%v", tt.field, tt.value)
			}
		})
	}
}

func TestUpdateBuilder_Execute(t *testing.T) {
	ex, mock := newMockExecutor(t)

	mock.ExpectExec(`UPDATE "jobs" SET "title"=$1 WHERE "id" = $2`).
		WithArgs("Dev", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := NewUpdateBuilder(testTable(), ex).
		Set("title", "Dev").
		Filter("id", int64(3)).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if result.Affected != 1 {
		t.Errorf("expected 1 affected row, got %d", result.Affected)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// ============================================================
// DELETE BUILDER TESTS
// ============================================================

func TestDeleteBuilder_Build(t *testing.T) {
	builder := NewDeleteBuilder(testTable(), nil)
	builder.Filter("id", int64(9)).Returning("id")

	stmt, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if stmt.SQL != `DELETE FROM "jobs" WHERE "id" = $1 RETURNING "id"` {
		t.Errorf("unexpected SQL: %s", stmt.SQL)
	}
}

func TestDeleteBuilder_Build_NoFilter(t *testing.T) {
	_, err := NewDeleteBuilder(testTable(), nil).Build()

	var safety *engine.SafetyError
	if !errors.As(err, &safety) {
		t.Errorf("Build() should fail without filter (safety guard), got %v", err)
	}
}

func TestDeleteBuilder_Build_ForceAll(t *testing.T) {
	stmt, err := NewDeleteBuilder(testTable(), nil).ForceAll().Build()
	if err != nil {
		t.Fatalf("Build() with ForceAll should succeed: %v", err)
	}

	if stmt.SQL != `DELETE FROM "jobs"` {
		t.Errorf("unexpected SQL: %s", stmt.SQL)
	}
}

func TestDeleteBuilder_Build_UnknownFilter(t *testing.T) {
	_, err := NewDeleteBuilder(testTable(), nil).Filter("nope", 1).Build()

	var unknown *engine.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Errorf("expected UnknownFieldError, got %v", err)
	}
}

func TestDeleteBuilder_Execute_NoRows(t *testing.T) {
	ex, mock := newMockExecutor(t)

	mock.ExpectQuery(`DELETE FROM "jobs" WHERE "id" = $1 RETURNING "id"`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	result, err := NewDeleteBuilder(testTable(), ex).
		Filter("id", int64(404)).
		Returning("id").
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if result.Affected != 0 || len(result.Rows) != 0 {
		t.Errorf("expected no rows, got %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// ============================================================
// FACTORY
// ============================================================

func TestRegister(t *testing.T) {
	eng := engine.NewEngine()
	Register(eng)

	if _, ok := eng.Insert(testTable()).(*InsertBuilder); !ok {
		t.Error("Insert() should return *InsertBuilder")
	}
	if _, ok := eng.Update(testTable()).(*UpdateBuilder); !ok {
		t.Error("Update() should return *UpdateBuilder")
	}
	if _, ok := eng.Delete(testTable()).(*DeleteBuilder); !ok {
		t.Error("Delete() should return *DeleteBuilder")
	}
}
