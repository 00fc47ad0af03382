package model

import "time"

// Job is a row of the jobs table
type Job struct {
	ID              string     `db:"id" json:"id"`
	EmployerID      string     `db:"employer_id" json:"employer_id"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	Requirements    *string    `db:"requirements" json:"requirements"`
	Benefits        *string    `db:"benefits" json:"benefits"`
	SalaryMin       *int64     `db:"salary_min" json:"salary_min"`
	SalaryMax       *int64     `db:"salary_max" json:"salary_max"`
	JobType         *string    `db:"job_type" json:"job_type"`
	ExperienceLevel *string    `db:"experience_level" json:"experience_level"`
	IsRemote        bool       `db:"is_remote" json:"is_remote"`
	Status          string     `db:"status" json:"status"`
	PostedAt        *time.Time `db:"posted_at" json:"posted_at"`
	ExpiredAt       *time.Time `db:"expired_at" json:"expired_at"`
	Views           int64      `db:"views" json:"views"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Employer links a job poster to an optional company
type Employer struct {
	ID        string  `db:"id"`
	CompanyID *string `db:"company_id"`
}

// Company is the display identity shown next to a job
type Company struct {
	ID   string  `db:"id"`
	Name string  `db:"name"`
	Logo *string `db:"logo"`
}

// JobLocationName is one (job, location name) pair of the jobs/locations association
type JobLocationName struct {
	JobID string `db:"job_id"`
	Name  string `db:"name"`
}

// EnrichedJob is a job with denormalized company and location display fields
type EnrichedJob struct {
	Job
	CompanyID   *string `json:"company_id"`
	CompanyName *string `json:"company_name"`
	CompanyLogo *string `json:"company_logo"`
	// Location is the comma-joined names of every location linked to the job
	Location string `json:"location"`
}

// JobPage is one page of a job listing plus the unpaginated match count
type JobPage struct {
	Data  []EnrichedJob `json:"data"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
