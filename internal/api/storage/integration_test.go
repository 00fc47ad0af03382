package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/model"
	"github.com/cuongbtq/jobboard-be/shared/logger"
	"github.com/cuongbtq/jobboard-be/shared/postgresql"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/suite"
)

const million = int64(1000000)

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration suite in short mode")
	}
	suite.Run(t, &postgresSuite{})
}

type postgresSuite struct {
	suite.Suite

	pool     *dockertest.Pool
	resource *dockertest.Resource
	db       *sqlx.DB
	storage  *Storage
	now      time.Time

	acme, withCompany, withoutCompany string
	j1, j2, j3                        string
}

func (s *postgresSuite) SetupSuite() {
	pool, err := dockertest.NewPool("")
	if err != nil {
		s.T().Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		s.T().Skipf("docker unavailable: %v", err)
	}
	pool.MaxWait = 60 * time.Second
	s.pool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=jobboard",
		},
	})
	s.Require().NoError(err, "start postgres")
	s.resource = resource
	s.Require().NoError(resource.Expire(180))

	dsn := fmt.Sprintf("postgres://postgres:secret@%s/jobboard?sslmode=disable", resource.GetHostPort("5432/tcp"))
	s.Require().NoError(pool.Retry(func() error {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return err
		}
		s.db = db
		return nil
	}), "connect postgres")

	schema, err := os.ReadFile("../../../migrations/0001_init.sql")
	s.Require().NoError(err)
	_, err = s.db.Exec(string(schema))
	s.Require().NoError(err, "apply schema")

	s.now = time.Now().UTC().Truncate(time.Second)
	log := logger.NewDiscard().Logger
	s.storage = NewStorage(postgresql.NewFromDB(s.db, log), log, WithClock(func() time.Time { return s.now }))
}

func (s *postgresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.pool != nil && s.resource != nil {
		s.NoError(s.pool.Purge(s.resource), "purge postgres")
	}
}

// SetupTest seeds three jobs:
// J1 "Backend Developer", full-time, 1 day old, 20-30M, Acme, Hanoi
// J2 "Frontend Intern", internship, 10 days old, 5-8M, no company
// J3 "Remote Backend", full-time, remote, 2 days old, 25-40M, Acme, Hanoi + Da Nang
func (s *postgresSuite) SetupTest() {
	_, err := s.db.Exec(`TRUNCATE job_locations, locations, jobs, employers, companies, notifications CASCADE`)
	s.Require().NoError(err)

	s.acme = s.insertReturningID(`INSERT INTO companies (name, logo) VALUES ('Acme', 'acme.png') RETURNING id`)
	s.withCompany = s.insertReturningID(`INSERT INTO employers (company_id) VALUES ($1) RETURNING id`, s.acme)
	s.withoutCompany = s.insertReturningID(`INSERT INTO employers (company_id) VALUES (NULL) RETURNING id`)

	s.j1 = s.insertJob(s.withCompany, "Backend Developer", "Build APIs", "full-time", false, 20*million, 30*million, 24*time.Hour)
	s.j2 = s.insertJob(s.withoutCompany, "Frontend Intern", "Learn React", "internship", false, 5*million, 8*million, 10*24*time.Hour)
	s.j3 = s.insertJob(s.withCompany, "Remote Backend", "Ship services", "full-time", true, 25*million, 40*million, 48*time.Hour)

	hanoi := s.insertReturningID(`INSERT INTO locations (name) VALUES ('Hanoi') RETURNING id`)
	daNang := s.insertReturningID(`INSERT INTO locations (name) VALUES ('Da Nang') RETURNING id`)
	s.link(s.j1, hanoi)
	s.link(s.j3, hanoi)
	s.link(s.j3, daNang)
}

func (s *postgresSuite) insertReturningID(query string, args ...interface{}) string {
	var id string
	s.Require().NoError(s.db.QueryRowx(query, args...).Scan(&id))
	return id
}

func (s *postgresSuite) insertJob(employerID, title, description, jobType string, remote bool, salaryMin, salaryMax int64, age time.Duration) string {
	return s.insertReturningID(`
		INSERT INTO jobs (employer_id, title, description, job_type, is_remote, salary_min, salary_max, status, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8)
		RETURNING id`,
		employerID, title, description, jobType, remote, salaryMin, salaryMax, s.now.Add(-age))
}

func (s *postgresSuite) link(jobID, locationID string) {
	_, err := s.db.Exec(`INSERT INTO job_locations (job_id, location_id) VALUES ($1, $2)`, jobID, locationID)
	s.Require().NoError(err)
}

func (s *postgresSuite) find(f domain.JobFilter) *model.JobPage {
	page, err := s.storage.FindAll(context.Background(), 1, 100, f)
	s.Require().NoError(err)
	return page
}

func ids(page *model.JobPage) []string {
	out := make([]string, len(page.Data))
	for i, j := range page.Data {
		out[i] = j.ID
	}
	return out
}

func (s *postgresSuite) TestScenario_Search() {
	page := s.find(domain.JobFilter{Search: domain.Ptr("backend")})
	s.Equal(2, page.Total)
	s.Equal([]string{s.j1, s.j3}, ids(page))
}

func (s *postgresSuite) TestScenario_TypeAndRemote() {
	page := s.find(domain.JobFilter{JobType: domain.Single("full-time"), IsRemote: domain.Ptr(true)})
	s.Equal([]string{s.j3}, ids(page))
}

func (s *postgresSuite) TestScenario_PostedWithin() {
	page := s.find(domain.JobFilter{PostedWithin: domain.Ptr(5)})
	s.ElementsMatch([]string{s.j1, s.j3}, ids(page))
}

func (s *postgresSuite) TestScenario_SalaryFloor() {
	page := s.find(domain.JobFilter{SalaryMin: domain.Ptr(28 * million)})
	s.ElementsMatch([]string{s.j1, s.j3}, ids(page))
}

func (s *postgresSuite) TestSalaryOverlap() {
	other := s.insertReturningID(`INSERT INTO employers (company_id) VALUES (NULL) RETURNING id`)
	j := s.insertJob(other, "Data Analyst", "Dashboards", "contract", false, 10*million, 25*million, 3*24*time.Hour)

	only := func(f domain.JobFilter) []string {
		f.EmployerID = &other
		return ids(s.find(f))
	}

	s.Equal([]string{j}, only(domain.JobFilter{SalaryMin: domain.Ptr(20 * million)}))
	s.Equal([]string{j}, only(domain.JobFilter{SalaryMax: domain.Ptr(12 * million)}))
	s.Empty(only(domain.JobFilter{SalaryMin: domain.Ptr(30 * million)}))
}

func (s *postgresSuite) TestLocationIsCaseInsensitiveSubstring() {
	page := s.find(domain.JobFilter{Location: domain.Ptr("hano")})
	s.ElementsMatch([]string{s.j1, s.j3}, ids(page))
}

func (s *postgresSuite) TestJobTypeSets() {
	s.ElementsMatch([]string{s.j1, s.j2, s.j3}, ids(s.find(domain.JobFilter{JobType: domain.Many("full-time", "internship")})))

	empty := s.find(domain.JobFilter{JobType: domain.Many()})
	s.Equal(0, empty.Total)
	s.Empty(empty.Data)
}

func (s *postgresSuite) TestEnrichment() {
	page := s.find(domain.JobFilter{})
	s.Require().Equal([]string{s.j1, s.j3, s.j2}, ids(page))

	j1, j3, j2 := page.Data[0], page.Data[1], page.Data[2]
	s.Require().NotNil(j1.CompanyName)
	s.Equal("Acme", *j1.CompanyName)
	s.Equal("acme.png", *j1.CompanyLogo)
	s.Equal(s.acme, *j1.CompanyID)
	s.Equal("Hanoi", j1.Location)
	s.Equal("Da Nang, Hanoi", j3.Location)
	s.Nil(j2.CompanyName)
	s.Equal("", j2.Location)
}

func (s *postgresSuite) TestSortSalaryDesc() {
	unpaid := s.insertReturningID(`
		INSERT INTO jobs (employer_id, title, status, posted_at) VALUES ($1, 'Volunteer', 'active', NOW())
		RETURNING id`, s.withoutCompany)

	page := s.find(domain.JobFilter{Sort: domain.SortSalaryDesc})
	s.Require().Len(page.Data, 4)
	for i := 0; i < 2; i++ {
		s.GreaterOrEqual(*page.Data[i].SalaryMax, *page.Data[i+1].SalaryMax)
	}
	s.Equal(unpaid, page.Data[3].ID, "NULL salaries sort last")
}

func (s *postgresSuite) TestSortRelevance() {
	newer := s.insertJob(s.withoutCompany, "Data Engineer", "Pairs with the backend team", "full-time", false, 1, 2, time.Hour)

	newest := s.find(domain.JobFilter{Search: domain.Ptr("backend")})
	s.Equal([]string{newer, s.j1, s.j3}, ids(newest))

	relevant := s.find(domain.JobFilter{Search: domain.Ptr("backend"), Sort: domain.SortRelevance})
	s.Equal([]string{s.j1, s.j3, newer}, ids(relevant))
}

func (s *postgresSuite) TestPaginationCoverage() {
	for i := 0; i < 4; i++ {
		// identical timestamps force the id tie-break
		s.insertJob(s.withoutCompany, fmt.Sprintf("Clone %d", i), "", "full-time", false, 1, 2, 5*time.Hour)
	}

	seen := map[string]bool{}
	first, err := s.storage.FindAll(context.Background(), 1, 2, domain.JobFilter{})
	s.Require().NoError(err)
	totalPages := (first.Total + 1) / 2

	for p := 1; p <= totalPages; p++ {
		page, err := s.storage.FindAll(context.Background(), p, 2, domain.JobFilter{})
		s.Require().NoError(err)
		s.LessOrEqual(len(page.Data), 2)
		for _, j := range page.Data {
			s.False(seen[j.ID], "duplicate %s on page %d", j.ID, p)
			seen[j.ID] = true
		}
	}
	s.Len(seen, first.Total)
	s.Equal(7, first.Total)
}

func (s *postgresSuite) TestConjunctionIsMonotonic() {
	narrow := s.find(domain.JobFilter{Search: domain.Ptr("backend"), IsRemote: domain.Ptr(true)})
	wide := s.find(domain.JobFilter{Search: domain.Ptr("backend")})

	s.Subset(ids(wide), ids(narrow))
	s.LessOrEqual(narrow.Total, wide.Total)
}

func (s *postgresSuite) TestFindByID() {
	got, err := s.storage.FindByID(context.Background(), s.j3)
	s.Require().NoError(err)
	s.Equal("Remote Backend", got.Title)
	s.Equal("Da Nang, Hanoi", got.Location)

	_, err = s.storage.FindByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	s.ErrorIs(err, domain.ErrJobNotFound)
}

func (s *postgresSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.storage.FindAll(ctx, 1, 10, domain.JobFilter{})
	s.ErrorIs(err, domain.ErrStorageUnavailable)
	s.ErrorIs(err, context.Canceled)
}
