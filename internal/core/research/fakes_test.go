package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"researcher/internal/capability"
)

// Capability fakes shared by the agent and pipeline tests. Each counts its
// calls so tests can assert how far a fallback chain ran.

type fakeSearcher struct {
	results map[string][]capability.SearchResult // matched by substring, see lookup
	always  []capability.SearchResult
	err     error
	calls   int
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]capability.SearchResult, error) {
	f.calls++
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	for sub, res := range f.results {
		if containsFold(query, sub) {
			return res, nil
		}
	}
	return f.always, nil
}

type fakeScraper struct {
	page  *capability.Page
	err   error
	calls int
	urls  []string
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (*capability.Page, error) {
	f.calls++
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

// fakeGenerator returns canned structured outputs keyed by a substring of
// the prompt; the first matching script wins.
type fakeGenerator struct {
	scripts  []genScript
	textOut  string
	textErr  error
	err      error
	calls    int
	panicMsg string
}

type genScript struct {
	promptContains string
	out            map[string]interface{}
	err            error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, spec map[string]interface{}) (map[string]interface{}, error) {
	f.calls++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.scripts {
		if containsFold(prompt, s.promptContains) {
			return s.out, s.err
		}
	}
	return nil, fmt.Errorf("no script for prompt: %.60s", prompt)
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.textOut, f.textErr
}

type fakeLookup struct {
	data  map[string]interface{}
	err   error
	calls int
}

func (f *fakeLookup) Lookup(ctx context.Context, companyURL string) (map[string]interface{}, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

// fakeExtractor serves a scripted sequence of poll updates after Submit.
// pollErrs is aligned with updates: a non-nil entry makes that poll call
// fail instead of returning its update.
type fakeExtractor struct {
	submitErr   error
	handle      string
	updates     []capability.ExtractUpdate
	pollErrs    []error
	pollErr     error
	submitCalls int
	pollCalls   int
}

func (f *fakeExtractor) Submit(ctx context.Context, url string, schema map[string]interface{}, instruction string) (string, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	if f.handle == "" {
		f.handle = "extract-1"
	}
	return f.handle, nil
}

func (f *fakeExtractor) Poll(ctx context.Context, handle string) (*capability.ExtractUpdate, error) {
	f.pollCalls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	idx := f.pollCalls - 1
	if idx < len(f.pollErrs) && f.pollErrs[idx] != nil {
		return nil, f.pollErrs[idx]
	}
	if idx >= len(f.updates) {
		idx = len(f.updates) - 1
	}
	u := f.updates[idx]
	return &u, nil
}

var errCapability = errors.New("capability unavailable")

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
