package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher downloads the survey source files from an open-data index
// page, politely rate limited.
type Fetcher struct {
	Client  *http.Client
	Limiter *RateLimiter
}

// New builds a Fetcher with the default HTTP client and the given
// requests-per-second budget.
func New(rps float64) *Fetcher {
	return &Fetcher{
		Client:  http.DefaultClient,
		Limiter: NewRateLimiter(rps),
	}
}

// ListCSVLinks fetches the index page and returns the absolute URLs of
// every linked CSV file.
func (f *Fetcher) ListCSVLinks(ctx context.Context, indexURL string) ([]string, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching index page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing index page: %w", err)
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("parsing index URL: %w", err)
	}

	return ParseCSVLinks(doc, base), nil
}

// ParseCSVLinks extracts CSV link targets from a parsed index page,
// resolving them against the page URL. Duplicate targets collapse.
func ParseCSVLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(href)), ".csv") {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})

	return links
}

// Download fetches one file into destDir, named after the last URL
// path segment. Returns the written path.
func (f *Fetcher) Download(ctx context.Context, fileURL, destDir string) (string, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", fileURL, resp.StatusCode)
	}

	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", err
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive a file name from %s", fileURL)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating dest dir: %w", err)
	}
	dest := filepath.Join(destDir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}

	return dest, nil
}
