package capability

import "context"

// Capability interfaces consumed by the research agents. Each external
// service (search, scrape, generation, extraction, profile lookup) is
// injected through one of these so agents can be tested with fakes.

// SearchResult is one ranked hit from a web search.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher runs a text web search and returns ranked snippets.
// Implementations may return fewer than maxResults.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// Page is the extracted content of a single scraped URL.
type Page struct {
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
}

// Scraper fetches a URL and returns its main content as markdown/text.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Page, error)
}

// Generator is the LLM capability. Generate enforces a JSON output spec
// (field name -> type name) and returns the decoded object; GenerateText
// returns a plain completion.
type Generator interface {
	Generate(ctx context.Context, prompt string, outputSpec map[string]interface{}) (map[string]interface{}, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ProfileLookup resolves a company-page URL into a structured profile
// document, or fails.
type ProfileLookup interface {
	Lookup(ctx context.Context, companyURL string) (map[string]interface{}, error)
}

// ExtractStatus mirrors the lifecycle of an asynchronous extraction job.
type ExtractStatus string

const (
	ExtractQueued     ExtractStatus = "queued"
	ExtractProcessing ExtractStatus = "processing"
	ExtractCompleted  ExtractStatus = "completed"
	ExtractFailed     ExtractStatus = "failed"
	ExtractCancelled  ExtractStatus = "cancelled"
)

// ExtractUpdate is one poll observation of an extraction job.
type ExtractUpdate struct {
	Status ExtractStatus          `json:"status"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Extractor submits a URL for schema-driven structured extraction and
// exposes polling on the returned job handle.
type Extractor interface {
	Submit(ctx context.Context, url string, schema map[string]interface{}, instruction string) (string, error)
	Poll(ctx context.Context, handle string) (*ExtractUpdate, error)
}
