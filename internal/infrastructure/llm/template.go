package llm

import (
	"fmt"
	"os"
	"strings"
)

// defaultTemplate is the built-in instruction text used when no template
// file is configured. It pins the output schema the summarizer parses.
const defaultTemplate = `You are a news desk editor. You receive the raw text of one news article.
Respond with a single JSON object and nothing else. The object must have
exactly these fields:
  "dateOfPublication": ISO date the article was published, or "" if unknown
  "timeOfPublication": clock time of publication, or "" if unknown
  "title": the article's headline
  "category": one broad category such as "Politics & Governance" or "Science & Technology"
  "summaryOfNewsArticle": a neutral narrative summary of several sentences
  "keyTakeAways": array of short strings, the article's key points in order
  "namedEntities": array of objects with "name", "whatIsThisEntity",
    "whyIsThisEntityRelevantToTheArticle"
  "importantDates": array of objects with "dateMentionedInArticle",
    "descriptionOfWhyDateIsRelevant"
  "importantTimeframes": array of objects with "approximateTimeFrameStart",
    "approximateTimeFrameEnd", "descriptionOfWhyTimeFrameIsRelevant"
  "tags": array of short lowercase topic tags
Do not wrap the JSON in markdown fences or add commentary.`

// LoadTemplate reads the instruction template from path, falling back to
// the built-in template when no path is configured.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return defaultTemplate, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", path, err)
	}
	template := strings.TrimSpace(string(raw))
	if template == "" {
		return "", fmt.Errorf("template %s is empty", path)
	}
	return template, nil
}
