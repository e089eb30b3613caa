package scrapecreators

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"researcher/internal/capability"
	"researcher/internal/logger"
)

const defaultBaseURL = "https://api.scrapecreators.com"

// Client implements capability.ProfileLookup against the ScrapeCreators
// LinkedIn company endpoint.
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
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.New("ScrapeCreators"),
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) Lookup(ctx context.Context, companyURL string) (map[string]interface{}, error) {
	endpoint := c.baseURL + "/v1/linkedin/company?url=" + url.QueryEscape(companyURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, capability.NewError(capability.KindLookup, "scrapecreators.company", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, capability.NewError(capability.KindLookup, "scrapecreators.company", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, capability.NewError(capability.KindLookup, "scrapecreators.company",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(b)))
	}

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, capability.NewError(capability.KindLookup, "scrapecreators.company", err)
	}
	c.log.LogDebugf("company lookup for %s returned %d fields", companyURL, len(out))
	return out, nil
}
