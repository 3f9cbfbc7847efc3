package markdown

import (
	"fmt"
	"sort"
	"strings"

	"NewsPress/internal/domain"
)

const uncategorized = "Uncategorized"

// Render produces the standalone edition document: a masthead, a publish
// header, and per-article sections grouped by category in alphabetical
// order.
func Render(edition *domain.Edition, paperTitle string) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", paperTitle)
	fmt.Fprintf(&md, "#### Edition published at %s\n\n", edition.LocalTime)

	byCategory := groupByCategory(edition.Articles)
	for _, category := range sortedCategories(byCategory) {
		fmt.Fprintf(&md, "# %s\n\n", category)
		for _, article := range byCategory[category] {
			renderArticle(&md, article)
		}
	}

	return md.String()
}

func renderArticle(md *strings.Builder, article domain.ArticleSummary) {
	if tag := article.SourceTag(); tag != "" {
		fmt.Fprintf(md, "## %s - <small>`%s`</small>\n\n", article.Title, tag)
	} else {
		fmt.Fprintf(md, "## %s\n\n", article.Title)
	}

	if article.Source != "" {
		fmt.Fprintf(md, "- [source](%s)\n", article.Source)
	}
	fmt.Fprintf(md, "- _Published: %s %s_\n", article.DateOfPublication, article.TimeOfPublication)
	fmt.Fprintf(md, "- **%s**\n", categoryOf(article))
	if len(article.Tags) > 0 {
		fmt.Fprintf(md, "- <small>tags: `%s`</small>\n\n", strings.Join(article.Tags, ", "))
	} else {
		fmt.Fprintln(md)
	}

	fmt.Fprintf(md, "### Summary\n\n%s\n\n", strings.TrimSpace(article.SummaryOfNewsArticle))

	if len(article.KeyTakeAways) > 0 {
		fmt.Fprintln(md, "### Key Takeaways")
		for _, takeaway := range article.KeyTakeAways {
			fmt.Fprintf(md, "  - %s\n", takeaway)
		}
		fmt.Fprintln(md)
	}

	if len(article.NamedEntities) > 0 {
		fmt.Fprintln(md, "### Named Entities")
		for _, entity := range article.NamedEntities {
			fmt.Fprintf(md, "- **%s**\n", entity.Name)
			fmt.Fprintf(md, "    - %s\n", entity.WhatIsThisEntity)
			fmt.Fprintf(md, "    - %s\n", entity.WhyIsThisEntityRelevantToTheArticle)
		}
		fmt.Fprintln(md)
	}

	if len(article.ImportantDates) > 0 {
		fmt.Fprintln(md, "### Important Dates")
		for _, date := range article.ImportantDates {
			fmt.Fprintf(md, "  - **%s**\n", date.DateMentionedInArticle)
			fmt.Fprintf(md, "    - %s\n", date.DescriptionOfWhyDateIsRelevant)
		}
		fmt.Fprintln(md)
	}

	if len(article.ImportantTimeframes) > 0 {
		fmt.Fprintln(md, "### Important Timeframes")
		for _, tf := range article.ImportantTimeframes {
			fmt.Fprintf(md, "  - **From _%s_ to _%s_**\n", tf.ApproximateTimeFrameStart, tf.ApproximateTimeFrameEnd)
			fmt.Fprintf(md, "    - %s\n", tf.DescriptionOfWhyTimeFrameIsRelevant)
		}
		fmt.Fprintln(md)
	}

	fmt.Fprint(md, "---\n\n")
}

func categoryOf(article domain.ArticleSummary) string {
	if c := strings.TrimSpace(article.Category); c != "" {
		return c
	}
	return uncategorized
}

func groupByCategory(articles []domain.ArticleSummary) map[string][]domain.ArticleSummary {
	grouped := map[string][]domain.ArticleSummary{}
	for _, article := range articles {
		category := categoryOf(article)
		grouped[category] = append(grouped[category], article)
	}
	return grouped
}

func sortedCategories(grouped map[string][]domain.ArticleSummary) []string {
	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// slugify converts headings into markdown fragment identifiers.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
