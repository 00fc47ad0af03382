package storage

import (
	"context"
	"strings"

	"github.com/cuongbtq/jobboard-be/internal/api/model"
	"github.com/lib/pq"
)

const (
	employersByIDs = `SELECT id, company_id FROM employers WHERE id = ANY($1::uuid[])`
	companiesByIDs = `SELECT id, name, logo FROM companies WHERE id = ANY($1::uuid[])`
	locationsByJob = `
		SELECT jl.job_id, l.name
		FROM job_locations jl
		JOIN locations l ON l.id = jl.location_id
		WHERE jl.job_id = ANY($1::uuid[])
		ORDER BY l.name`
)

// enrich attaches company and location display fields to jobs, keeping
// their order. It issues at most one query per related table regardless of
// how many jobs are passed.
func (s *Storage) enrich(ctx context.Context, jobs []model.Job) ([]model.EnrichedJob, error) {
	out := make([]model.EnrichedJob, len(jobs))
	if len(jobs) == 0 {
		return out, nil
	}

	jobIDs := make([]string, 0, len(jobs))
	employerIDs := make([]string, 0, len(jobs))
	for i, job := range jobs {
		out[i].Job = job
		jobIDs = append(jobIDs, job.ID)
		employerIDs = append(employerIDs, job.EmployerID)
	}

	employerIDs = unique(employerIDs)
	employerCompany, err := s.employerCompanies(ctx, employerIDs)
	if err != nil {
		return nil, err
	}

	companyIDs := make([]string, 0, len(employerIDs))
	for _, employerID := range employerIDs {
		if companyID := employerCompany[employerID]; companyID != nil {
			companyIDs = append(companyIDs, *companyID)
		}
	}

	companies, err := s.companies(ctx, unique(companyIDs))
	if err != nil {
		return nil, err
	}

	locations, err := s.locationNames(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	for i := range out {
		if companyID := employerCompany[out[i].EmployerID]; companyID != nil {
			out[i].CompanyID = companyID
			if company, ok := companies[*companyID]; ok {
				out[i].CompanyName = &company.Name
				out[i].CompanyLogo = company.Logo
			}
		}
		out[i].Location = strings.Join(locations[out[i].ID], ", ")
	}

	return out, nil
}

func (s *Storage) employerCompanies(ctx context.Context, ids []string) (map[string]*string, error) {
	result := make(map[string]*string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var employers []model.Employer
	if err := s.db.SelectContext(ctx, &employers, employersByIDs, pq.Array(ids)); err != nil {
		return nil, unavailable("load employers", err)
	}
	for _, e := range employers {
		result[e.ID] = e.CompanyID
	}
	return result, nil
}

func (s *Storage) companies(ctx context.Context, ids []string) (map[string]model.Company, error) {
	result := make(map[string]model.Company, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var companies []model.Company
	if err := s.db.SelectContext(ctx, &companies, companiesByIDs, pq.Array(ids)); err != nil {
		return nil, unavailable("load companies", err)
	}
	for _, c := range companies {
		result[c.ID] = c
	}
	return result, nil
}

func (s *Storage) locationNames(ctx context.Context, jobIDs []string) (map[string][]string, error) {
	var rows []model.JobLocationName
	if err := s.db.SelectContext(ctx, &rows, locationsByJob, pq.Array(jobIDs)); err != nil {
		return nil, unavailable("load locations", err)
	}

	result := make(map[string][]string, len(jobIDs))
	for _, r := range rows {
		result[r.JobID] = append(result[r.JobID], r.Name)
	}
	return result, nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
