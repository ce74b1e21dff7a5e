package jobs

import (
	"fmt"
	"math"

	"github.com/jobly-api/jobly/pkg/engine"
)

// Table describes the jobs table. companyHandle is fixed once a job exists
// and id is assigned by the store.
var Table = &engine.Table{
	Name:   "jobs",
	Entity: "job",
	Columns: []*engine.Column{
		{Field: "id", Name: "id", Type: engine.FieldTypeInt, PrimaryKey: true, Generated: true},
		{Field: "title", Name: "title", Type: engine.FieldTypeString},
		{Field: "salary", Name: "salary", Type: engine.FieldTypeInt, Nullable: true, Min: engine.Bound(0), Max: engine.Bound(math.MaxInt32)},
		{Field: "equity", Name: "equity", Type: engine.FieldTypeDecimal, Nullable: true, Min: engine.Bound(0), Max: engine.Bound(1)},
		{Field: "companyHandle", Name: "company_handle", Type: engine.FieldTypeString, Immutable: true},
	},
}

// Job is a stored job posting. Equity is NUMERIC and kept in its text form.
type Job struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
	CompanyName   *string `json:"companyName,omitempty"`
}

// NewJob is the input for Create
type NewJob struct {
	Title         string  `json:"title"`
	Salary        *int    `json:"salary,omitempty"`
	Equity        *string `json:"equity,omitempty"`
	CompanyHandle string  `json:"companyHandle"`
}

// Filter narrows FindAll. Nil fields are ignored.
type Filter struct {
	MinSalary *int
	HasEquity *bool
	Title     *string
}

// Criteria returns the filter's criteria in their fixed order:
// minimum salary, then equity, then title.
func (f Filter) Criteria() []engine.Criterion {
	return []engine.Criterion{
		engine.AtLeast("salary", f.MinSalary),
		engine.Flag("equity > 0", f.HasEquity),
		engine.ContainsFold("title", f.Title),
	}
}

// fromRow maps a result row onto a Job
func fromRow(row engine.Row) (*Job, error) {
	id, err := row.OptionalInt("id")
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, fmt.Errorf("job row without id")
	}

	salary, err := row.OptionalInt("salary")
	if err != nil {
		return nil, err
	}

	equity, err := row.OptionalString("equity")
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:            *id,
		Title:         row.String("title"),
		Salary:        salary,
		Equity:        equity,
		CompanyHandle: row.String("company_handle"),
	}

	if _, ok := row["company_name"]; ok {
		name, err := row.OptionalString("company_name")
		if err != nil {
			return nil, err
		}
		job.CompanyName = name
	}

	return job, nil
}
