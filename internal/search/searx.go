package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veredicto/veredicto/internal/model"
)

// SearxProvider implements Provider against a SearXNG instance. It needs
// no API key, which makes it the usual secondary in the fallback chain.
type SearxProvider struct {
	baseURL    string
	httpClient *http.Client
}

type searxResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// NewSearxProvider creates a SearXNG provider.
func NewSearxProvider(cfg model.ProviderConfig, timeout time.Duration) (*SearxProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("SearXNG base URL is required")
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &SearxProvider{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (p *SearxProvider) Name() string {
	return "searxng"
}

// Search runs a web search, retrying transient failures.
func (p *SearxProvider) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	if opts.Locale != "" {
		params.Set("language", strings.ToLower(opts.Locale))
	}

	reqURL := fmt.Sprintf("%s/search?%s", p.baseURL, params.Encode())

	var results []Result
	err := withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(body))
		}

		var parsed searxResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}

		results = results[:0]
		max := opts.Max
		if max <= 0 {
			max = 10
		}
		for _, r := range parsed.Results {
			if r.URL == "" {
				continue
			}
			results = append(results, Result{URL: r.URL, Title: r.Title, Snippet: r.Content})
			if len(results) >= max {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
