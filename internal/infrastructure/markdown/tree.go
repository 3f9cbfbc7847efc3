package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
)

const (
	masterIndexFile = "daily_news.md"
	summaryFile     = "SUMMARY.md"
	latestFile      = "latest.md"
	latestLimit     = 10
)

var (
	dateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	todRe  = regexp.MustCompile(`Morning|Afternoon|Evening`)
)

// Tree maintains the markdown document set for published editions: the
// standalone edition document, a per-day table of contents, the master
// index, the mdBook summary and a rolling digest of recent editions.
// Every merge is idempotent — re-merging an already linked edition leaves
// each document byte-identical.
type Tree struct {
	dir    string
	title  string
	logger *slog.Logger
}

var _ ports.DocumentTree = (*Tree)(nil)

// NewTree maintains documents under dir, rendering editions with the given
// paper title.
func NewTree(dir, title string, logger *slog.Logger) *Tree {
	return &Tree{dir: dir, title: title, logger: logger}
}

// Merge writes the edition document and links it into every index the tree
// maintains. Documents that do not exist yet are created with a single
// entry.
func (t *Tree) Merge(ctx context.Context, edition *domain.Edition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.md", edition.LocalDate, edition.TimeOfDay)
	if err := os.WriteFile(filepath.Join(t.dir, filename), []byte(Render(edition, t.title)), 0o644); err != nil {
		return fmt.Errorf("write edition document: %w", err)
	}

	updates := []struct {
		name   string
		update func(existing string) (string, bool)
	}{
		{edition.LocalDate + ".md", func(existing string) (string, bool) {
			return mergeDayTOC(existing, edition, filename)
		}},
		{masterIndexFile, func(existing string) (string, bool) {
			return mergeMasterIndex(existing, t.title, edition.Key(), filename)
		}},
		{summaryFile, func(existing string) (string, bool) {
			return mergeSummary(existing, edition.Key(), filename)
		}},
		{latestFile, func(existing string) (string, bool) {
			return mergeLatest(existing, edition.Key(), filename)
		}},
	}

	for _, u := range updates {
		path := filepath.Join(t.dir, u.name)
		existing, err := readIfExists(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", u.name, err)
		}
		updated, changed := u.update(existing)
		if !changed {
			continue
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return fmt.Errorf("update %s: %w", u.name, err)
		}
	}

	if t.logger != nil {
		t.logger.Info("merged edition into document tree",
			"date", edition.LocalDate, "time_of_day", edition.TimeOfDay, "articles", len(edition.Articles))
	}
	return nil
}

func readIfExists(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitLines(doc string) []string {
	if strings.TrimSpace(doc) == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(doc, "\n"), "\n")
}

func renderLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

func rankFromLine(line string) int {
	match := todRe.FindString(line)
	if match == "" {
		return -1
	}
	return domain.TimeOfDay(strings.ToLower(match)).Rank()
}

// mergeDayTOC links the edition into the per-day table of contents. Each
// edition owns one block: its link line plus indented category and article
// lines. Blocks are kept in morning → afternoon → evening order; an edition
// already present is never rebuilt, so amended re-runs stay stable.
func mergeDayTOC(existing string, edition *domain.Edition, filename string) (string, bool) {
	type block struct {
		rank  int
		lines []string
	}

	var blocks []block
	for _, line := range splitLines(existing) {
		switch {
		case strings.HasPrefix(line, "- ["):
			blocks = append(blocks, block{rank: rankFromLine(line), lines: []string{line}})
		case strings.HasPrefix(line, "\t") && len(blocks) > 0:
			last := &blocks[len(blocks)-1]
			last.lines = append(last.lines, line)
		}
	}

	rank := edition.TimeOfDay.Rank()
	for _, b := range blocks {
		if b.rank == rank {
			return existing, false
		}
	}
	blocks = append(blocks, block{rank: rank, lines: dayTOCBlock(edition, filename)})
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].rank < blocks[j].rank })

	out := []string{fmt.Sprintf("# Editions published on %s", edition.LocalDate), ""}
	for _, b := range blocks {
		out = append(out, b.lines...)
	}
	return renderLines(out), true
}

func dayTOCBlock(edition *domain.Edition, filename string) []string {
	lines := []string{fmt.Sprintf("- [%s](./%s)", edition.TimeOfDay.Title(), filename)}

	byCategory := groupByCategory(edition.Articles)
	for _, category := range sortedCategories(byCategory) {
		lines = append(lines, fmt.Sprintf("\t- [**%s**](./%s#%s)", category, filename, slugify(category)))
		for _, article := range byCategory[category] {
			prefix := ""
			if tag := article.SourceTag(); tag != "" {
				prefix = fmt.Sprintf("`%s` ", tag)
			}
			lines = append(lines, fmt.Sprintf("\t\t- %s[%s](./%s#%s)", prefix, article.Title, filename, slugify(article.Title)))
		}
	}
	return lines
}

// indexLayout describes a two-level edition index: day lines holding
// indented edition lines, days newest-first, editions within a day in
// chronological order.
type indexLayout struct {
	preamble      []string
	dayPrefix     string
	editionPrefix string
	anchor        string
}

func mergeMasterIndex(existing, title string, key domain.EditionKey, filename string) (string, bool) {
	layout := indexLayout{
		preamble:      []string{fmt.Sprintf("# %s Index", title), ""},
		dayPrefix:     "- [**",
		editionPrefix: "    - [",
	}
	dayLine := fmt.Sprintf("- [**%s**](./%s.md)", key.LocalDate, key.LocalDate)
	editionLine := fmt.Sprintf("    - [%s](./%s)", key.TimeOfDay.Title(), filename)
	return mergeEditionIndex(existing, layout, key, dayLine, editionLine)
}

func mergeSummary(existing string, key domain.EditionKey, filename string) (string, bool) {
	layout := indexLayout{
		preamble: []string{
			"# Summary",
			"",
			"[Home](./home.md)",
			"- [Daily News](./daily_news.md)",
		},
		dayPrefix:     "    - [",
		editionPrefix: "        - [",
		anchor:        "[Daily News]",
	}
	dayLine := fmt.Sprintf("    - [%s](./%s.md)", key.LocalDate, key.LocalDate)
	editionLine := fmt.Sprintf("        - [%s](./%s)", key.TimeOfDay.Title(), filename)
	return mergeEditionIndex(existing, layout, key, dayLine, editionLine)
}

func mergeEditionIndex(existing string, layout indexLayout, key domain.EditionKey, dayLine, editionLine string) (string, bool) {
	lines := splitLines(existing)
	if lines == nil {
		lines = slices.Clone(layout.preamble)
	}

	isEdition := func(line string) bool {
		return strings.HasPrefix(line, layout.editionPrefix) && rankFromLine(line) >= 0
	}
	isDay := func(line string) bool {
		return !isEdition(line) && strings.HasPrefix(line, layout.dayPrefix) && dateRe.MatchString(line)
	}

	// Day blocks: a day line plus the contiguous edition lines under it.
	type span struct {
		date       string
		start, end int
	}
	var spans []span
	for i := 0; i < len(lines); i++ {
		if !isDay(lines[i]) {
			continue
		}
		j := i + 1
		for j < len(lines) && isEdition(lines[j]) {
			j++
		}
		spans = append(spans, span{date: dateRe.FindString(lines[i]), start: i, end: j})
		i = j - 1
	}

	rank := key.TimeOfDay.Rank()
	for _, s := range spans {
		if s.date != key.LocalDate {
			continue
		}
		insertAt := s.end
		for i := s.start + 1; i < s.end; i++ {
			r := rankFromLine(lines[i])
			if r == rank {
				return existing, false
			}
			if r > rank {
				insertAt = i
				break
			}
		}
		return renderLines(slices.Insert(lines, insertAt, editionLine)), true
	}

	// New day block, inserted to keep days newest-first.
	insertAt := len(lines)
	switch {
	case len(spans) > 0:
		insertAt = spans[len(spans)-1].end
		for _, s := range spans {
			if s.date < key.LocalDate {
				insertAt = s.start
				break
			}
		}
	case layout.anchor != "":
		for i, line := range lines {
			if strings.Contains(line, layout.anchor) {
				insertAt = i + 1
				break
			}
		}
	}
	return renderLines(slices.Insert(lines, insertAt, dayLine, editionLine)), true
}

// mergeLatest keeps a flat digest of the most recent editions, newest
// first, capped at latestLimit entries.
func mergeLatest(existing string, key domain.EditionKey, filename string) (string, bool) {
	type entry struct {
		key  domain.EditionKey
		line string
	}

	var entries []entry
	for _, line := range splitLines(existing) {
		if !strings.HasPrefix(line, "- [") {
			continue
		}
		date := dateRe.FindString(line)
		rank := rankFromLine(line)
		if date == "" || rank < 0 {
			continue
		}
		k := domain.EditionKey{LocalDate: date, TimeOfDay: domain.Morning}
		switch rank {
		case domain.Afternoon.Rank():
			k.TimeOfDay = domain.Afternoon
		case domain.Evening.Rank():
			k.TimeOfDay = domain.Evening
		}
		if k == key {
			return existing, false
		}
		entries = append(entries, entry{key: k, line: line})
	}

	entries = append(entries, entry{
		key:  key,
		line: fmt.Sprintf("- [%s %s](./%s)", key.LocalDate, key.TimeOfDay.Title(), filename),
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[j].key.Less(entries[i].key) })
	if len(entries) > latestLimit {
		entries = entries[:latestLimit]
	}

	out := []string{"# Latest Editions", ""}
	for _, e := range entries {
		out = append(out, e.line)
	}
	updated := renderLines(out)
	return updated, updated != existing
}
