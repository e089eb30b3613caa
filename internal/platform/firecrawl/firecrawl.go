package firecrawl

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

const defaultBaseURL = "https://api.firecrawl.dev/v2"

// Client implements capability.Scraper and capability.Extractor on top of
// the Firecrawl v2 API. Scrape is synchronous; Extract is submit-then-poll.
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
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     logger.New("Firecrawl"),
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

func (c *Client) Scrape(ctx context.Context, url string) (*capability.Page, error) {
	payload := scrapeRequest{URL: url, Formats: []string{"markdown"}, OnlyMainContent: true}

	var out scrapeResponse
	if err := c.post(ctx, "/scrape", payload, &out); err != nil {
		return nil, capability.NewError(capability.KindScrape, "firecrawl.scrape", err)
	}
	if !out.Success || out.Data.Markdown == "" {
		return nil, capability.NewError(capability.KindScrape, "firecrawl.scrape",
			fmt.Errorf("empty content for %s: %s", url, out.Error))
	}
	return &capability.Page{Content: out.Data.Markdown, Title: out.Data.Metadata.Title}, nil
}

type extractRequest struct {
	URLs   []string               `json:"urls"`
	Schema map[string]interface{} `json:"schema"`
	Prompt string                 `json:"prompt"`
}

type extractSubmitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error,omitempty"`
}

type extractPollResponse struct {
	Status string                 `json:"status"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// Submit starts an asynchronous extraction job and returns its handle.
func (c *Client) Submit(ctx context.Context, url string, schema map[string]interface{}, instruction string) (string, error) {
	payload := extractRequest{URLs: []string{url}, Schema: schema, Prompt: instruction}

	var out extractSubmitResponse
	if err := c.post(ctx, "/extract", payload, &out); err != nil {
		return "", capability.NewError(capability.KindExtract, "firecrawl.extract", err)
	}
	if out.ID == "" {
		return "", capability.NewError(capability.KindExtract, "firecrawl.extract",
			fmt.Errorf("no job id returned: %s", out.Error))
	}
	c.log.LogDebugf("extract job %s submitted for %s", out.ID, url)
	return out.ID, nil
}

// Poll reports the current status of an extraction job.
func (c *Client) Poll(ctx context.Context, handle string) (*capability.ExtractUpdate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/extract/"+handle, nil)
	if err != nil {
		return nil, capability.NewError(capability.KindExtract, "firecrawl.poll", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, capability.NewError(capability.KindExtract, "firecrawl.poll", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, capability.NewError(capability.KindExtract, "firecrawl.poll",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(b)))
	}

	var out extractPollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, capability.NewError(capability.KindExtract, "firecrawl.poll", err)
	}
	return &capability.ExtractUpdate{Status: capability.ExtractStatus(out.Status), Data: out.Data}, nil
}

func (c *Client) post(ctx context.Context, path string, payload, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
