package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"researcher/internal/capability"
	"researcher/internal/logger"
	"researcher/internal/utils/markdown"
)

const (
	maxBodyBytes = 2 << 20 // 2 MiB is plenty for a landing page
	userAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Client is the direct-HTTP scrape fallback: plain GET plus HTML-to-markdown
// conversion. Used behind the hosted scrape API in a capability.ScraperChain.
type Client struct {
	http *http.Client
	log  *logger.Logger
}

func New() *Client {
	return &Client{
		http: &http.Client{Timeout: 15 * time.Second},
		log:  logger.New("Fetch"),
	}
}

func (c *Client) Scrape(ctx context.Context, url string) (*capability.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, capability.NewError(capability.KindScrape, "fetch.get", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, capability.NewError(capability.KindScrape, "fetch.get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, capability.NewError(capability.KindScrape, "fetch.get",
			fmt.Errorf("status %d for %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, capability.NewError(capability.KindScrape, "fetch.read", err)
	}

	html := string(body)
	content := markdown.ConvertHTMLToMarkdown(html)
	if content == "" {
		return nil, capability.NewError(capability.KindScrape, "fetch.convert",
			fmt.Errorf("no content extracted from %s", url))
	}

	c.log.LogDebugf("fetched %s (%d bytes markdown)", url, len(content))
	return &capability.Page{Content: content, Title: markdown.Title(html)}, nil
}
