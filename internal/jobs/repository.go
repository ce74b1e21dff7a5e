package jobs

import (
	"context"
	"fmt"

	"github.com/jobly-api/jobly/pkg/engine"
	"github.com/jobly-api/jobly/pkg/engine/mutation"
)

// Journal records mutations. *journal.Logger satisfies it.
type Journal interface {
	Log(action, status string, details map[string]interface{}, err error) error
}

// columns returned by every mutation and by Get
var returned = []string{"id", "title", "salary", "equity", "companyHandle"}

// Repository reads and writes jobs through the engine
type Repository struct {
	eng     *engine.Engine
	journal Journal
}

// NewRepository creates a repository. The engine must have a mutation
// factory registered.
func NewRepository(eng *engine.Engine) *Repository {
	return &Repository{eng: eng}
}

// WithJournal records every mutation in j
func (r *Repository) WithJournal(j Journal) *Repository {
	r.journal = j
	return r
}

// ─────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────

// FindAll lists jobs matching f, ordered by title
func (r *Repository) FindAll(ctx context.Context, f Filter) ([]Job, error) {
	result, err := r.listQuery(f).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]Job, 0, result.Count())
	for _, row := range result.Rows {
		job, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// ListStatement returns the SELECT FindAll would run
func (r *Repository) ListStatement(f Filter) (*engine.Statement, error) {
	return r.listQuery(f).ToSQL()
}

func (r *Repository) listQuery(f Filter) *engine.QueryBuilder {
	return r.eng.Query("jobs j").
		Columns("j.id", "j.title", "j.salary", "j.equity", "j.company_handle", "c.name AS company_name").
		Join("LEFT JOIN companies AS c ON c.handle = j.company_handle").
		Filter(f.Criteria()...).
		OrderBy("title", "asc")
}

// Get returns the job with the given id
func (r *Repository) Get(ctx context.Context, id int) (*Job, error) {
	result, err := r.eng.Query("jobs").
		Columns("id", "title", "salary", "equity", "company_handle").
		Filter(engine.Equals("id", &id)).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}

	if result.Count() == 0 {
		return nil, &engine.NotFoundError{Entity: Table.Entity, ID: id}
	}
	return fromRow(result.Rows[0])
}

// ─────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────

// Create inserts a job and returns the stored row
func (r *Repository) Create(ctx context.Context, in NewJob) (*Job, error) {
	result, err := r.insert(in).Execute(ctx)
	r.record("create", nil, err)
	if err != nil {
		return nil, err
	}
	return single(result)
}

// CreateStatement returns the INSERT Create would run
func (r *Repository) CreateStatement(in NewJob) (*engine.Statement, error) {
	return r.insert(in).Build()
}

func (r *Repository) insert(in NewJob) engine.InsertMutation {
	m := r.eng.Insert(Table).Set("title", in.Title)
	if in.Salary != nil {
		m.Set("salary", *in.Salary)
	}
	if in.Equity != nil {
		m.Set("equity", *in.Equity)
	}
	return m.Set("companyHandle", in.CompanyHandle).Returning(returned...)
}

// Update applies a partial update. The order of fields decides the order of
// the SET list and its placeholders; id takes the next placeholder.
func (r *Repository) Update(ctx context.Context, id int, fields *mutation.Fields) (*Job, error) {
	result, err := r.update(id, fields).Execute(ctx)
	if err == nil && result.Affected == 0 {
		err = &engine.NotFoundError{Entity: Table.Entity, ID: id}
	}
	r.record("update", map[string]interface{}{"id": id, "fields": fields.Keys()}, err)
	if err != nil {
		return nil, err
	}
	return single(result)
}

// UpdateStatement returns the UPDATE Update would run
func (r *Repository) UpdateStatement(id int, fields *mutation.Fields) (*engine.Statement, error) {
	return r.update(id, fields).Build()
}

func (r *Repository) update(id int, fields *mutation.Fields) engine.UpdateMutation {
	return r.eng.Update(Table).
		SetAll(fields).
		Filter("id", id).
		Returning(returned...)
}

// Remove deletes the job with the given id
func (r *Repository) Remove(ctx context.Context, id int) error {
	result, err := r.remove(id).Execute(ctx)
	if err == nil && result.Affected == 0 {
		err = &engine.NotFoundError{Entity: Table.Entity, ID: id}
	}
	r.record("delete", map[string]interface{}{"id": id}, err)
	return err
}

// RemoveStatement returns the DELETE Remove would run
func (r *Repository) RemoveStatement(id int) (*engine.Statement, error) {
	return r.remove(id).Build()
}

func (r *Repository) remove(id int) engine.DeleteMutation {
	return r.eng.Delete(Table).Filter("id", id).Returning("id")
}

func (r *Repository) record(action string, details map[string]interface{}, err error) {
	if r.journal == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	details["table"] = Table.Name

	status := "ok"
	if err != nil {
		status = "error"
	}
	// journal failures never fail the mutation
	_ = r.journal.Log(action, status, details, err)
}

func single(result *engine.MutationResult) (*Job, error) {
	if len(result.Rows) == 0 {
		return nil, fmt.Errorf("%s on %s returned no row", result.Type, result.Table)
	}
	return fromRow(result.Rows[0])
}
