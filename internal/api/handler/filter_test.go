package handler

import (
	"errors"
	"testing"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobFilter_BlankIsAbsent(t *testing.T) {
	f, err := parseJobFilter(&dto.ListJobsRequest{
		Search:       "   ",
		Location:     "",
		JobType:      []string{"", " , "},
		PostedWithin: " ",
		IsRemote:     "",
	})
	require.NoError(t, err)

	assert.Nil(t, f.Search)
	assert.Nil(t, f.Location)
	assert.False(t, f.JobType.Present())
	assert.Nil(t, f.PostedWithin)
	assert.Nil(t, f.IsRemote)
	assert.Equal(t, domain.SortNewest, f.Sort)
}

func TestParseJobFilter_Sets(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		wantMany bool
		want     []string
	}{
		{name: "single", raw: []string{"full-time"}, want: []string{"full-time"}},
		{name: "repeated keys", raw: []string{"full-time", "contract"}, wantMany: true, want: []string{"full-time", "contract"}},
		{name: "comma separated", raw: []string{"full-time, contract"}, wantMany: true, want: []string{"full-time", "contract"}},
		{name: "mixed", raw: []string{"a,b", "c"}, wantMany: true, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseJobFilter(&dto.ListJobsRequest{ExperienceLevel: tt.raw})
			require.NoError(t, err)

			assert.True(t, f.ExperienceLevel.Present())
			assert.Equal(t, tt.wantMany, f.ExperienceLevel.IsMany())
			assert.Equal(t, tt.want, f.ExperienceLevel.Values())
		})
	}
}

func TestParseJobFilter_RemoteFalseIsKept(t *testing.T) {
	f, err := parseJobFilter(&dto.ListJobsRequest{IsRemote: "false"})
	require.NoError(t, err)
	require.NotNil(t, f.IsRemote)
	assert.False(t, *f.IsRemote)
}

func TestParseJobFilter_EmployerIDIsCanonical(t *testing.T) {
	f, err := parseJobFilter(&dto.ListJobsRequest{EmployerID: "3F1B0C1E-6A52-4A3E-9D5B-2F6A3B7C8D90"})
	require.NoError(t, err)
	assert.Equal(t, "3f1b0c1e-6a52-4a3e-9d5b-2f6a3b7c8d90", *f.EmployerID)
}

func TestParseJobFilter_ErrorsAreInvalidFilterValues(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.ListJobsRequest
		param string
		value string
	}{
		{name: "salary not a number", req: dto.ListJobsRequest{SalaryMax: "lots"}, param: "salary_max", value: "lots"},
		{name: "posted_within past the cap", req: dto.ListJobsRequest{PostedWithin: "36501"}, param: "posted_within", value: "36501"},
		{name: "posted_within max int", req: dto.ListJobsRequest{PostedWithin: "9223372036854775807"}, param: "posted_within", value: "9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseJobFilter(&tt.req)
			require.Error(t, err)

			assert.True(t, errors.Is(err, domain.ErrInvalidFilterValue))

			var invalid *domain.InvalidFilterError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.param, invalid.Param)
			assert.Equal(t, tt.value, invalid.Value)
		})
	}
}

func TestParseJobFilter_PostedWithinCap(t *testing.T) {
	f, err := parseJobFilter(&dto.ListJobsRequest{PostedWithin: "36500"})
	require.NoError(t, err)
	require.NotNil(t, f.PostedWithin)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	assert.True(t, now.AddDate(0, 0, -*f.PostedWithin).Before(now))
}
