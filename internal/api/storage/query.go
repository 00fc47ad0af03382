package storage

import (
	"slices"
	"strings"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const jobColumns = `
	j.id, j.employer_id, j.title, j.description, j.requirements, j.benefits,
	j.salary_min, j.salary_max, j.job_type, j.experience_level, j.is_remote,
	j.status, j.posted_at, j.expired_at, j.views, j.created_at, j.updated_at`

// query accumulates AND-ed conditions with "?" placeholders. Values are
// never mutated in place, so a query can be shared between the count and
// page statements.
type query struct {
	conds []string
	args  []interface{}
}

func (q query) with(cond string, args ...interface{}) query {
	return query{
		conds: append(slices.Clip(q.conds), cond),
		args:  append(slices.Clip(q.args), args...),
	}
}

func (q query) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// filterFunc adds the condition for one JobFilter field, or returns q
// unchanged when that field is absent
type filterFunc func(q query, f *domain.JobFilter, now time.Time) query

// jobFilters is folded over an empty query. The predicates are independent
// so the order only affects placeholder numbering.
var jobFilters = []filterFunc{
	searchFilter,
	locationFilter,
	setFilter("j.job_type", func(f *domain.JobFilter) domain.StringSet { return f.JobType }),
	setFilter("j.experience_level", func(f *domain.JobFilter) domain.StringSet { return f.ExperienceLevel }),
	postedWithinFilter,
	employerFilter,
	remoteFilter,
	salaryMinFilter,
	salaryMaxFilter,
	statusFilter,
}

func applyFilters(f *domain.JobFilter, now time.Time) query {
	var q query
	for _, apply := range jobFilters {
		q = apply(q, f, now)
	}
	return q
}

func searchFilter(q query, f *domain.JobFilter, _ time.Time) query {
	if !f.HasSearch() {
		return q
	}
	pattern := containsPattern(*f.Search)
	return q.with("(j.title ILIKE ? OR j.description ILIKE ?)", pattern, pattern)
}

func locationFilter(q query, f *domain.JobFilter, _ time.Time) query {
	if f.Location == nil || *f.Location == "" {
		return q
	}
	return q.with(`EXISTS (
		SELECT 1 FROM job_locations jl
		JOIN locations l ON l.id = jl.location_id
		WHERE jl.job_id = j.id AND l.name ILIKE ?)`, containsPattern(*f.Location))
}

// setFilter handles the Single|Many shape of job_type and experience_level.
// An empty Many matches no rows.
func setFilter(column string, field func(*domain.JobFilter) domain.StringSet) filterFunc {
	return func(q query, f *domain.JobFilter, _ time.Time) query {
		set := field(f)
		switch {
		case !set.Present():
			return q
		case !set.IsMany():
			return q.with(column+" = ?", set.Value())
		case len(set.Values()) == 0:
			return q.with("FALSE")
		default:
			return q.with(column+" = ANY(?)", pq.Array(set.Values()))
		}
	}
}

func postedWithinFilter(q query, f *domain.JobFilter, now time.Time) query {
	if f.PostedWithin == nil {
		return q
	}
	return q.with("j.posted_at >= ?", now.AddDate(0, 0, -*f.PostedWithin))
}

func employerFilter(q query, f *domain.JobFilter, _ time.Time) query {
	if f.EmployerID == nil {
		return q
	}
	return q.with("j.employer_id = ?", *f.EmployerID)
}

func remoteFilter(q query, f *domain.JobFilter, _ time.Time) query {
	if f.IsRemote == nil {
		return q
	}
	return q.with("j.is_remote = ?", *f.IsRemote)
}

// salaryMinFilter and salaryMaxFilter use range overlap: a 10M-25M job
// satisfies a 20M floor.
func salaryMinFilter(q query, f *domain.JobFilter, _ time.Time) query {
	if f.SalaryMin == nil {
		return q
	}
	return q.with("j.salary_max >= ?", *f.SalaryMin)
}

func salaryMaxFilter(q query, f *domain.JobFilter, _ time.Time) query {
	if f.SalaryMax == nil {
		return q
	}
	return q.with("j.salary_min <= ?", *f.SalaryMax)
}

func statusFilter(q query, f *domain.JobFilter, _ time.Time) query {
	if f.Status == nil {
		return q
	}
	return q.with("j.status = ?", *f.Status)
}

// orderBy returns the ORDER BY list for the filter's sort key. Every order
// ends on j.id so equal sort values still paginate deterministically.
func orderBy(f *domain.JobFilter) (string, []interface{}) {
	const recency = "j.posted_at DESC NULLS LAST, j.id DESC"

	switch f.Sort {
	case domain.SortSalaryDesc:
		return "j.salary_max DESC NULLS LAST, " + recency, nil
	case domain.SortSalaryAsc:
		return "j.salary_min ASC NULLS LAST, " + recency, nil
	case domain.SortRelevance:
		if f.HasSearch() {
			return "CASE WHEN j.title ILIKE ? THEN 0 ELSE 1 END, " + recency,
				[]interface{}{containsPattern(*f.Search)}
		}
		return recency, nil
	default:
		return recency, nil
	}
}

// statement is a ready-to-run SQL string with its positional arguments
type statement struct {
	SQL  string
	Args []interface{}
}

func buildCountStatement(q query) statement {
	return statement{
		SQL:  sqlx.Rebind(sqlx.DOLLAR, "SELECT COUNT(*) FROM jobs j"+q.where()),
		Args: q.args,
	}
}

func buildPageStatement(q query, f *domain.JobFilter, limit, offset int) statement {
	order, orderArgs := orderBy(f)

	args := append(slices.Clip(q.args), orderArgs...)
	args = append(args, limit, offset)

	return statement{
		SQL: sqlx.Rebind(sqlx.DOLLAR,
			"SELECT"+jobColumns+" FROM jobs j"+q.where()+" ORDER BY "+order+" LIMIT ? OFFSET ?"),
		Args: args,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term anywhere. LIKE
// metacharacters in term are matched literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
