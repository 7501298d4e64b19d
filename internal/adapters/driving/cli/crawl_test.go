package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/core/ports/driving"
)

func TestCrawlCommand(t *testing.T) {
	assert.Equal(t, "crawl", crawlCmd.Use)
	assert.NotEmpty(t, crawlCmd.Short)
	assert.Equal(t, "today", crawlCmd.Flags().Lookup("start").DefValue)
}

func TestParseStartDate(t *testing.T) {
	today := time.Now().UTC()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    *time.Time
		wantErr bool
	}{
		{
			name:  "today",
			input: "today",
			want:  &midnight,
		},
		{
			name:  "today is case-insensitive",
			input: "Today",
			want:  &midnight,
		},
		{
			name:  "all means full calendar",
			input: "all",
		},
		{
			name:  "empty means full calendar",
			input: "",
		},
		{
			name:  "explicit date",
			input: "2023-04-18",
			want:  timePtr(time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:  "surrounding whitespace",
			input: " 2023-04-18 ",
			want:  timePtr(time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:    "wrong format",
			input:   "18/04/2023",
			wantErr: true,
		},
		{
			name:    "not a date",
			input:   "tomorrow",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStartDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid --start")
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestRunCrawl(t *testing.T) {
	crawl := &mockCrawlService{stats: &driving.CrawlStats{
		MeetingsCreated:     2,
		MeetingsUpdated:     1,
		LegislationsCreated: 5,
		ActionsCreated:      7,
		ActionsUpdated:      3,
		DocumentsCreated:    11,
	}}
	restore := setupServices(&Services{Crawl: crawl})
	defer restore()

	out, err := executeCommand(t, "crawl", "--start", "2023-04-18")
	require.NoError(t, err)
	assert.Contains(t, out, "Crawling events on or after 2023-04-18...")
	assert.Contains(t, out, "Meetings:      2 created, 1 updated")
	assert.Contains(t, out, "Legislation:   5 created, 0 updated")
	assert.Contains(t, out, "Actions:       7 created, 3 updated")
	assert.Contains(t, out, "Documents:     11 fetched")

	require.NotNil(t, crawl.gotStart)
	assert.Equal(t, time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC), *crawl.gotStart)
}

func TestRunCrawl_FullCalendar(t *testing.T) {
	crawl := &mockCrawlService{stats: &driving.CrawlStats{}}
	restore := setupServices(&Services{Crawl: crawl})
	defer restore()

	out, err := executeCommand(t, "crawl", "--start", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Crawling the full calendar...")
	assert.Nil(t, crawl.gotStart)
}

func TestRunCrawl_InvalidStart(t *testing.T) {
	restore := setupServices(&Services{Crawl: &mockCrawlService{}})
	defer restore()

	_, err := executeCommand(t, "crawl", "--start", "next tuesday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --start")
}

func TestRunCrawl_ServiceError(t *testing.T) {
	crawl := &mockCrawlService{err: assert.AnError}
	restore := setupServices(&Services{Crawl: crawl})
	defer restore()

	_, err := executeCommand(t, "crawl", "--start", "all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crawl failed")
}

func TestRunCrawl_NotConfigured(t *testing.T) {
	restore := setupServices(&Services{})
	defer restore()

	_, err := executeCommand(t, "crawl", "--start", "all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crawl service not configured")
}
