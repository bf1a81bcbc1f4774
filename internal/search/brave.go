package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/veredicto/veredicto/internal/model"
)

// BraveProvider implements Provider using the Brave Search API.
type BraveProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type braveResponse struct {
	Web struct {
		Results []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// NewBraveProvider creates a Brave Search provider.
func NewBraveProvider(cfg model.ProviderConfig, timeout time.Duration) (*BraveProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Brave Search API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.search.brave.com/res/v1"
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &BraveProvider{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (p *BraveProvider) Name() string {
	return "brave"
}

// Search runs a web search, retrying transient failures.
func (p *BraveProvider) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	max := opts.Max
	if max <= 0 || max > 20 {
		max = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(max))
	if opts.Locale != "" {
		params.Set("country", strings.ToUpper(opts.Locale))
		params.Set("search_lang", strings.ToLower(opts.Locale))
	}

	reqURL := fmt.Sprintf("%s/web/search?%s", p.baseURL, params.Encode())

	var results []Result
	err := withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Subscription-Token", p.apiKey)

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

		var parsed braveResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}

		results = results[:0]
		for _, r := range parsed.Web.Results {
			if r.URL == "" {
				continue
			}
			results = append(results, Result{URL: r.URL, Title: r.Title, Snippet: r.Description})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
