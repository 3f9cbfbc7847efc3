package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsPress/internal/domain"
	"NewsPress/internal/scanner"
)

const indexHTML = `
<html><body>
  <div class="card--lite"><a href="/2026/08/23/first">First story</a></div>
  <div class="card--lite"><a href="/2026/08/23/second">Second story</a></div>
  <div class="card--lite"><a href="https://elsewhere.example/abs">Absolute link</a></div>
</body></html>`

const articleHTML = `
<html><body>
  <h1 class="headline--lite">A Big Headline</h1>
  <div class="article--lite"><p>First paragraph.</p><p>Second paragraph.</p></div>
</body></html>`

func testSource(baseURL string) scanner.Source {
	return scanner.Source{
		Name:          "lite-test",
		IndexURL:      baseURL,
		LinkSelector:  ".card--lite a[href]",
		TitleSelector: ".headline--lite",
		BodySelector:  ".article--lite",
	}
}

func TestLitepageIndex(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indexHTML))
	}))
	defer server.Close()

	sc := NewLitepageScanner(server.Client(), nil)
	refs, err := sc.Index(context.Background(), testSource(server.URL))
	if err != nil {
		t.Fatalf("Index error: %v", err)
	}

	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	if refs[0].URL != server.URL+"/2026/08/23/first" {
		t.Fatalf("relative link not resolved: %s", refs[0].URL)
	}
	if refs[2].URL != "https://elsewhere.example/abs" {
		t.Fatalf("absolute link rewritten: %s", refs[2].URL)
	}
	if refs[0].SourceSite != "lite-test" {
		t.Fatalf("unexpected source site: %s", refs[0].SourceSite)
	}
}

func TestLitepageIndexAnchorlessSelector(t *testing.T) {
	t.Parallel()

	// NPR Text puts the href on the selected element itself.
	html := `<html><body><a class="topic-title" href="/g-s1-1">Story</a></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	src := scanner.Source{Name: "npr-test", IndexURL: server.URL, LinkSelector: ".topic-title"}
	sc := NewLitepageScanner(server.Client(), nil)
	refs, err := sc.Index(context.Background(), src)
	if err != nil {
		t.Fatalf("Index error: %v", err)
	}
	if len(refs) != 1 || refs[0].URL != server.URL+"/g-s1-1" {
		t.Fatalf("unexpected refs: %+v", refs)
	}
}

func TestLitepageExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	sc := NewLitepageScanner(server.Client(), nil)
	ref := domain.ArticleRef{SourceSite: "lite-test", URL: server.URL + "/2026/08/23/first"}

	content, err := sc.Extract(context.Background(), testSource(server.URL), ref)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	want := "A Big Headline\nFirst paragraph. Second paragraph."
	if content.RawText != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", content.RawText, want)
	}
}

func TestLitepageExtractNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	sc := NewLitepageScanner(server.Client(), nil)
	ref := domain.ArticleRef{SourceSite: "lite-test", URL: server.URL + "/missing"}

	if _, err := sc.Extract(context.Background(), testSource(server.URL), ref); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestLitepageExtractReadabilityFallback(t *testing.T) {
	t.Parallel()

	// No configured selector matches; the readability path should still
	// recover the article text.
	html := `<html><head><title>Fallback</title></head><body><article>
	  <h1>Fallback Headline</h1>
	  <p>Readable paragraph one with enough words to keep extraction happy.</p>
	  <p>Readable paragraph two, also long enough to score as content.</p>
	</article></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	sc := NewLitepageScanner(server.Client(), nil)
	ref := domain.ArticleRef{SourceSite: "lite-test", URL: server.URL + "/fallback"}

	content, err := sc.Extract(context.Background(), testSource(server.URL), ref)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if content.RawText == "" {
		t.Fatal("expected readability fallback to produce text")
	}
}
