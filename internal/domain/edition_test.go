package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		hour int
		want TimeOfDay
	}{
		{0, Morning},
		{7, Morning},
		{8, Afternoon},
		{15, Afternoon},
		{16, Evening},
		{23, Evening},
	}

	for _, tc := range cases {
		at := time.Date(2026, time.August, 23, tc.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tc.want, ClassifyTimeOfDay(at), "hour %d", tc.hour)
	}
}

func TestEditionKeyOrdering(t *testing.T) {
	t.Parallel()

	morning := EditionKey{LocalDate: "2026-08-23", TimeOfDay: Morning}
	evening := EditionKey{LocalDate: "2026-08-23", TimeOfDay: Evening}
	nextDay := EditionKey{LocalDate: "2026-08-24", TimeOfDay: Morning}

	assert.True(t, morning.Less(evening))
	assert.True(t, evening.Less(nextDay))
	assert.False(t, nextDay.Less(morning))
	assert.False(t, morning.Less(morning))
}

func TestNewEditionMarshalsEmptyArticles(t *testing.T) {
	t.Parallel()

	edition := NewEdition(time.Date(2026, time.August, 23, 9, 15, 42, 0, time.UTC))
	assert.Equal(t, "2026-08-23", edition.LocalDate)
	assert.Equal(t, Afternoon, edition.TimeOfDay)
	assert.Equal(t, "09:15:42", edition.LocalTime)

	data, err := json.Marshal(edition)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"articles":[]`)
}

func TestSummaryValidate(t *testing.T) {
	t.Parallel()

	valid := ArticleSummary{Title: "Headline", SummaryOfNewsArticle: "Body."}
	assert.NoError(t, valid.Validate())

	missingTitle := ArticleSummary{SummaryOfNewsArticle: "Body."}
	assert.Error(t, missingTitle.Validate())

	missingSummary := ArticleSummary{Title: "Headline"}
	assert.Error(t, missingSummary.Validate())
}

func TestSourceTag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		source string
		want   string
	}{
		{"https://lite.cnn.com/2026/08/23/article", "cnn"},
		{"https://text.npr.org/g-s1-1234", "npr"},
		{"https://example.com/article", "example"},
		{"not a url", ""},
		{"", ""},
	}

	for _, tc := range cases {
		got := ArticleSummary{Source: tc.source}.SourceTag()
		assert.Equal(t, tc.want, got, "source %q", tc.source)
	}
}

func TestTimeOfDayTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Morning", Morning.Title())
	assert.Equal(t, "Evening", Evening.Title())
	assert.Equal(t, "", TimeOfDay("").Title())
}
