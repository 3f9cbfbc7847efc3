package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPress/internal/domain"
)

func editionAt(t *testing.T, hour int, day int) *domain.Edition {
	t.Helper()
	edition := domain.NewEdition(time.Date(2026, time.August, day, hour, 0, 0, 0, time.UTC))
	edition.Append(domain.ArticleSummary{
		Source:               "https://lite.cnn.com/story",
		Title:                "A Headline",
		Category:             "World",
		SummaryOfNewsArticle: "Something happened.",
	})
	return edition
}

func readDoc(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestMergeCreatesAllDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree := NewTree(dir, "The Plaintext Times", nil)

	require.NoError(t, tree.Merge(context.Background(), editionAt(t, 9, 23)))

	doc := readDoc(t, dir, "2026-08-23_afternoon.md")
	assert.Contains(t, doc, "# The Plaintext Times")

	toc := readDoc(t, dir, "2026-08-23.md")
	assert.Contains(t, toc, "# Editions published on 2026-08-23")
	assert.Contains(t, toc, "- [Afternoon](./2026-08-23_afternoon.md)")
	assert.Contains(t, toc, "\t- [**World**](./2026-08-23_afternoon.md#world)")
	assert.Contains(t, toc, "\t\t- `cnn` [A Headline](./2026-08-23_afternoon.md#a-headline)")

	index := readDoc(t, dir, "daily_news.md")
	assert.Contains(t, index, "# The Plaintext Times Index")
	assert.Contains(t, index, "- [**2026-08-23**](./2026-08-23.md)")
	assert.Contains(t, index, "    - [Afternoon](./2026-08-23_afternoon.md)")

	summary := readDoc(t, dir, "SUMMARY.md")
	assert.Contains(t, summary, "- [Daily News](./daily_news.md)")
	assert.Contains(t, summary, "    - [2026-08-23](./2026-08-23.md)")
	assert.Contains(t, summary, "        - [Afternoon](./2026-08-23_afternoon.md)")

	latest := readDoc(t, dir, "latest.md")
	assert.Contains(t, latest, "- [2026-08-23 Afternoon](./2026-08-23_afternoon.md)")
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree := NewTree(dir, "The Plaintext Times", nil)
	edition := editionAt(t, 9, 23)

	require.NoError(t, tree.Merge(context.Background(), edition))
	before := map[string]string{}
	for _, name := range []string{"2026-08-23.md", "daily_news.md", "SUMMARY.md", "latest.md", "2026-08-23_afternoon.md"} {
		before[name] = readDoc(t, dir, name)
	}

	require.NoError(t, tree.Merge(context.Background(), edition))
	for name, content := range before {
		assert.Equal(t, content, readDoc(t, dir, name), name)
	}
}

func TestMergeOrdersEditionsWithinDay(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree := NewTree(dir, "The Plaintext Times", nil)

	// Evening lands first, then morning arrives from a backfill.
	require.NoError(t, tree.Merge(context.Background(), editionAt(t, 20, 23)))
	require.NoError(t, tree.Merge(context.Background(), editionAt(t, 6, 23)))

	toc := readDoc(t, dir, "2026-08-23.md")
	morning := strings.Index(toc, "- [Morning]")
	evening := strings.Index(toc, "- [Evening]")
	require.Positive(t, morning)
	require.Positive(t, evening)
	assert.Less(t, morning, evening)

	index := readDoc(t, dir, "daily_news.md")
	assert.Equal(t, 1, strings.Count(index, "- [**2026-08-23**]"))
	assert.Less(t, strings.Index(index, "[Morning]"), strings.Index(index, "[Evening]"))
}

func TestMergeKeepsDaysNewestFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree := NewTree(dir, "The Plaintext Times", nil)

	require.NoError(t, tree.Merge(context.Background(), editionAt(t, 9, 22)))
	require.NoError(t, tree.Merge(context.Background(), editionAt(t, 9, 24)))
	require.NoError(t, tree.Merge(context.Background(), editionAt(t, 9, 23)))

	index := readDoc(t, dir, "daily_news.md")
	d24 := strings.Index(index, "- [**2026-08-24**]")
	d23 := strings.Index(index, "- [**2026-08-23**]")
	d22 := strings.Index(index, "- [**2026-08-22**]")
	assert.Less(t, d24, d23)
	assert.Less(t, d23, d22)

	summary := readDoc(t, dir, "SUMMARY.md")
	assert.Less(t, strings.Index(summary, "[2026-08-24]"), strings.Index(summary, "[2026-08-23]"))
}

func TestMergeLatestCapsEntries(t *testing.T) {
	t.Parallel()

	existing := ""
	for day := 1; day <= latestLimit+2; day++ {
		key := domain.EditionKey{
			LocalDate: fmt.Sprintf("2026-08-%02d", day),
			TimeOfDay: domain.Morning,
		}
		updated, changed := mergeLatest(existing, key, key.LocalDate+"_morning.md")
		require.True(t, changed)
		existing = updated
	}

	lines := strings.Split(strings.TrimSpace(existing), "\n")
	// Header, blank separator, then the capped entries.
	require.Len(t, lines, 2+latestLimit)
	assert.Contains(t, lines[2], "2026-08-12")
	assert.Contains(t, lines[len(lines)-1], "2026-08-03")
}

func TestMergeLatestSkipsKnownEdition(t *testing.T) {
	t.Parallel()

	key := domain.EditionKey{LocalDate: "2026-08-23", TimeOfDay: domain.Evening}
	first, changed := mergeLatest("", key, "2026-08-23_evening.md")
	require.True(t, changed)

	again, changed := mergeLatest(first, key, "2026-08-23_evening.md")
	assert.False(t, changed)
	assert.Equal(t, first, again)
}
