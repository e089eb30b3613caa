package capability

import "context"

// ScraperChain tries each scraper in order and returns the first usable
// page. Used to put the hosted scrape API in front of the direct fetcher.
type ScraperChain []Scraper

func (c ScraperChain) Scrape(ctx context.Context, url string) (*Page, error) {
	var lastErr error
	for _, s := range c {
		page, err := s.Scrape(ctx, url)
		if err == nil && page != nil && page.Content != "" {
			return page, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = NewError(KindScrape, "chain", nil)
	}
	return nil, lastErr
}
