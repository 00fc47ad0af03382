package dto

import "github.com/cuongbtq/jobboard-be/internal/pagination"

// ListJobsRequest is the raw query string of GET /api/v1/jobs. Numeric and
// boolean fields stay strings so coercion errors can name the parameter.
type ListJobsRequest struct {
	Page            string   `form:"page"`
	Limit           string   `form:"limit"`
	Search          string   `form:"search"`
	Location        string   `form:"location"`
	JobType         []string `form:"job_type"`
	ExperienceLevel []string `form:"experience_level"`
	PostedWithin    string   `form:"posted_within"`
	EmployerID      string   `form:"employer_id"`
	IsRemote        string   `form:"is_remote"`
	SalaryMin       string   `form:"salary_min"`
	SalaryMax       string   `form:"salary_max"`
	Status          string   `form:"status"`
	Sort            string   `form:"sort"`
}

// Response is the envelope of every API response
type Response struct {
	Success    bool             `json:"success"`
	StatusCode int              `json:"status_code"`
	Message    string           `json:"message"`
	Data       interface{}      `json:"data,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
	Error      *ErrorDetail     `json:"error,omitempty"`
}

type ErrorDetail struct {
	Param  string `json:"param,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// JobViewedEvent is published when a job's detail page is served
type JobViewedEvent struct {
	JobID string `json:"job_id"`
}
