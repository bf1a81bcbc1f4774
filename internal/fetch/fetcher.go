// Package fetch retrieves evidence pages and extracts best-effort body
// text. Fetches honor robots.txt, per-domain rate limits, and a response
// cache so repeat claims about the same story do not re-hit publishers.
package fetch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/veredicto/veredicto/internal/cache"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/worker"
)

// Page is the cleaned result of fetching one evidence URL.
type Page struct {
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fetcher fetches evidence pages.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	pages      cache.Pages // nil disables caching
	robots     *RobotsChecker
	limiter    *worker.Limiter
}

// NewFetcher creates a fetcher from configuration.
func NewFetcher(httpCfg model.HTTPConfig, cacheCfg model.CacheConfig, rateCfg model.RateLimitConfig) *Fetcher {
	transport := http.DefaultTransport
	if httpCfg.InsecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	var pages cache.Pages
	if cacheCfg.Enabled {
		pages = cache.NewMemoryPages(cacheCfg.TTL, cacheCfg.CleanupInterval)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   httpCfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		pages:     pages,
		robots:    NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout),
		limiter:   worker.NewLimiter(rateCfg.RequestsPerSecond, rateCfg.Burst),
	}
}

// Page fetches one URL and returns its extracted body text. Blocked,
// unreachable, or unparseable pages come back as errors; callers drop
// them and continue with whatever evidence was retrievable.
func (f *Fetcher) Page(ctx context.Context, rawURL string) (*Page, error) {
	if f.pages != nil {
		if data, found := f.pages.Get(rawURL); found {
			var page Page
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
		}
	}

	if !f.robots.Allowed(ctx, rawURL) {
		return nil, fmt.Errorf("fetch %s: blocked by robots.txt", rawURL)
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL
	title, text := extractContent(string(body), finalURL)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("fetch %s: no extractable text", rawURL)
	}

	page := &Page{
		URL:       finalURL.String(),
		Domain:    finalURL.Hostname(),
		Title:     title,
		Text:      text,
		FetchedAt: time.Now().UTC(),
	}

	if f.pages != nil {
		if data, err := json.Marshal(page); err == nil {
			f.pages.Set(rawURL, data)
		}
	}
	return page, nil
}

// extractContent strips non-content markup, preferring readability's
// article extraction and falling back to a plain visible-text walk.
func extractContent(htmlContent string, pageURL *url.URL) (title, text string) {
	article, err := readability.FromReader(strings.NewReader(htmlContent), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.Title, normalizeWhitespace(article.TextContent)
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", ""
	}
	return "", normalizeWhitespace(visibleText(doc))
}

// visibleText extracts text nodes, skipping script/style/nav chrome.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer", "header":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate caps text at budget characters, cutting at a word boundary.
func Truncate(text string, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}
	cut := text[:budget]
	if idx := strings.LastIndexByte(cut, ' '); idx > budget/2 {
		cut = cut[:idx]
	}
	return cut
}
