package research

import (
	"context"
	"fmt"
	"strings"

	"researcher/internal/capability"
	"researcher/internal/logger"
	"researcher/prompts"
)

// NewsSentinel is returned whenever the news stage cannot produce a summary.
const NewsSentinel = "Could not retrieve recent news."

// NewsAgent produces a short plain-text digest of recent company news.
// Summarize never fails; any capability error degrades to NewsSentinel.
type NewsAgent struct {
	search     capability.Searcher
	gen        capability.Generator
	maxResults int
	log        *logger.Logger
}

func NewNewsAgent(search capability.Searcher, gen capability.Generator, maxResults int) *NewsAgent {
	return &NewsAgent{search: search, gen: gen, maxResults: maxResults, log: logger.New("NewsAgent")}
}

func (a *NewsAgent) Summarize(ctx context.Context, companyName string) string {
	if companyName == "" {
		return NewsSentinel
	}
	query := fmt.Sprintf("%s company recent news -site:linkedin.com", companyName)
	results, err := a.search.Search(ctx, query, a.maxResults)
	if err != nil || len(results) == 0 {
		a.log.LogWarnf("news search failed for %s: %v", companyName, err)
		return NewsSentinel
	}
	summary, err := a.gen.GenerateText(ctx, prompts.NewsSummary(companyName, prompts.FormatSearchResults(results)))
	if err != nil || strings.TrimSpace(summary) == "" {
		a.log.LogWarnf("news summarization failed for %s: %v", companyName, err)
		return NewsSentinel
	}
	return strings.TrimSpace(summary)
}
