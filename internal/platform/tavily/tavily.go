package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"researcher/internal/capability"
	"researcher/internal/logger"
)

const defaultBaseURL = "https://api.tavily.com"

// Client implements capability.Searcher on top of the Tavily search API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     logger.New("Tavily"),
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]capability.SearchResult, error) {
	body, err := json.Marshal(searchRequest{APIKey: c.apiKey, Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, capability.NewError(capability.KindSearch, "tavily.search", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, capability.NewError(capability.KindSearch, "tavily.search", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, capability.NewError(capability.KindSearch, "tavily.search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, capability.NewError(capability.KindSearch, "tavily.search",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(b)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, capability.NewError(capability.KindSearch, "tavily.search", err)
	}

	results := make([]capability.SearchResult, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, capability.SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	c.log.LogDebugf("search %q returned %d results", query, len(results))
	return results, nil
}
