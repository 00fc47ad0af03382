package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/google/uuid"
)

// maxPostedWithinDays bounds posted_within so the cutoff date stays in the past
const maxPostedWithinDays = 36500

// parseJobFilter coerces the raw query parameters into a JobFilter. The
// first parameter that fails coercion is reported as an InvalidFilterError.
func parseJobFilter(req *dto.ListJobsRequest) (domain.JobFilter, error) {
	var f domain.JobFilter

	f.Search = optionalText(req.Search)
	f.Location = optionalText(req.Location)
	f.JobType = stringSet(req.JobType)
	f.ExperienceLevel = stringSet(req.ExperienceLevel)

	if raw := strings.TrimSpace(req.PostedWithin); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return f, domain.NewInvalidFilterError("posted_within", req.PostedWithin, err)
		}
		if days < 1 || days > maxPostedWithinDays {
			return f, domain.NewInvalidFilterError("posted_within", req.PostedWithin, fmt.Errorf("must be between 1 and %d days", maxPostedWithinDays))
		}
		f.PostedWithin = &days
	}

	if raw := strings.TrimSpace(req.EmployerID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, domain.NewInvalidFilterError("employer_id", req.EmployerID, err)
		}
		employerID := id.String()
		f.EmployerID = &employerID
	}

	if raw := strings.TrimSpace(req.IsRemote); raw != "" {
		remote, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.NewInvalidFilterError("is_remote", req.IsRemote, errors.New("must be true or false"))
		}
		f.IsRemote = &remote
	}

	var err error
	if f.SalaryMin, err = parseSalary("salary_min", req.SalaryMin); err != nil {
		return f, err
	}
	if f.SalaryMax, err = parseSalary("salary_max", req.SalaryMax); err != nil {
		return f, err
	}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		if !domain.IsValidStatus(raw) {
			return f, domain.NewInvalidFilterError("status", req.Status, errors.New("must be one of draft, active, expired, closed"))
		}
		f.Status = &raw
	}

	if f.Sort, err = domain.ParseSortKey(req.Sort); err != nil {
		return f, err
	}

	return f, nil
}

func parseSalary(param, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.NewInvalidFilterError(param, raw, errors.New("must be an integer"))
	}
	if v < 0 {
		return nil, domain.NewInvalidFilterError(param, raw, errors.New("must not be negative"))
	}
	return &v, nil
}

// optionalText treats blank text as an absent filter
func optionalText(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

// stringSet accepts repeated keys (job_type=a&job_type=b) as well as
// comma-separated values. One value is a Single, more is a Many.
func stringSet(raw []string) domain.StringSet {
	var values []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}

	switch len(values) {
	case 0:
		return domain.StringSet{}
	case 1:
		return domain.Single(values[0])
	default:
		return domain.Many(values...)
	}
}
