package domain

import (
	"fmt"
	"strings"
)

// SortKey selects the order of a job listing
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortSalaryAsc  SortKey = "salary_asc"
	SortSalaryDesc SortKey = "salary_desc"
	SortRelevance  SortKey = "relevance"
)

// ParseSortKey maps a query-string value to a SortKey; blank means newest
func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(strings.TrimSpace(raw)); key {
	case "":
		return SortNewest, nil
	case SortNewest, SortSalaryAsc, SortSalaryDesc, SortRelevance:
		return key, nil
	default:
		return "", NewInvalidFilterError("sort", raw, fmt.Errorf("must be one of newest, salary_asc, salary_desc, relevance"))
	}
}

// StringSet is a filter value that is either one string or a set of strings.
// The zero value means the filter is absent.
type StringSet struct {
	values  []string
	present bool
	many    bool
}

// Single matches exactly one value
func Single(v string) StringSet {
	return StringSet{values: []string{v}, present: true}
}

// Many matches membership in vs. Many() with no values matches nothing.
func Many(vs ...string) StringSet {
	return StringSet{values: append([]string(nil), vs...), present: true, many: true}
}

// Present reports whether the filter was supplied at all
func (s StringSet) Present() bool { return s.present }

// IsMany reports whether the set form was used
func (s StringSet) IsMany() bool { return s.many }

// Values returns a copy of the values
func (s StringSet) Values() []string { return append([]string(nil), s.values...) }

// Value returns the single value; only meaningful when !IsMany()
func (s StringSet) Value() string {
	if len(s.values) == 0 {
		return ""
	}
	return s.values[0]
}

func (s StringSet) String() string {
	switch {
	case !s.present:
		return ""
	case s.many:
		return "[" + strings.Join(s.values, ",") + "]"
	default:
		return s.Value()
	}
}

// JobFilter is the request-scoped job search criteria. Nil pointers and
// zero StringSets impose no constraint.
type JobFilter struct {
	Search          *string
	Location        *string
	JobType         StringSet
	ExperienceLevel StringSet
	// PostedWithin is a number of days counted back from now
	PostedWithin *int
	EmployerID   *string
	IsRemote     *bool
	// SalaryMin matches jobs whose salary_max reaches the floor
	SalaryMin *int64
	// SalaryMax matches jobs whose salary_min is under the ceiling
	SalaryMax *int64
	Status    *string
	Sort      SortKey
}

// HasSearch reports whether a non-empty free-text term is set
func (f *JobFilter) HasSearch() bool {
	return f.Search != nil && *f.Search != ""
}

// Ptr is a small helper for building filters in code
func Ptr[T any](v T) *T {
	return &v
}
