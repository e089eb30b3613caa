package research

import (
	"context"
	"errors"
	"testing"
	"time"

	"researcher/internal/capability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func careersSearcher() *fakeSearcher {
	return &fakeSearcher{always: []capability.SearchResult{
		{Title: "Careers at Acme", URL: "https://careers.acme.example", Snippet: "open roles"},
	}}
}

func careersGen(pick string) *fakeGenerator {
	return &fakeGenerator{scripts: []genScript{
		{promptContains: "official page listing open jobs", out: map[string]interface{}{"url": pick, "reasoning": "careers subdomain"}},
	}}
}

func newTestJobsAgent(search capability.Searcher, gen capability.Generator, extract capability.Extractor) *JobsAgent {
	return NewJobsAgent(search, gen, extract, 5, time.Millisecond, 4)
}

func TestDiscoverLocateFailureShortCircuits(t *testing.T) {
	extract := &fakeExtractor{}
	agent := newTestJobsAgent(&fakeSearcher{err: errCapability}, careersGen(""), extract)

	res := agent.Discover(context.Background(), "Acme", "")

	assert.Empty(t, res.Listings)
	assert.NotEmpty(t, res.Err)
	assert.Zero(t, extract.submitCalls, "no careers page means no extraction")
}

func TestDiscoverRejectsHomepagePick(t *testing.T) {
	extract := &fakeExtractor{}
	agent := newTestJobsAgent(careersSearcher(), careersGen("https://acme.example"), extract)

	res := agent.Discover(context.Background(), "Acme", "")

	assert.Empty(t, res.Listings)
	assert.Equal(t, "no careers page found", res.Err)
	assert.Zero(t, extract.submitCalls)
}

func TestDiscoverPollsUntilCompleted(t *testing.T) {
	extract := &fakeExtractor{updates: []capability.ExtractUpdate{
		{Status: capability.ExtractProcessing},
		{Status: capability.ExtractProcessing},
		{Status: capability.ExtractCompleted, Data: map[string]interface{}{
			"jobs": []interface{}{
				map[string]interface{}{"title": "Robotics Engineer", "location": "Berlin", "apply_url": "https://careers.acme.example/1"},
				map[string]interface{}{"location": "Remote"},
			},
		}},
	}}
	agent := newTestJobsAgent(careersSearcher(), careersGen("https://careers.acme.example"), extract)

	res := agent.Discover(context.Background(), "Acme", "https://acme.example")

	require.Len(t, res.Listings, 2)
	assert.Equal(t, 3, extract.pollCalls, "polling stops at the first completed status")
	assert.Equal(t, "https://careers.acme.example", res.CareersURL)
	assert.Empty(t, res.Err)
	assert.Equal(t, "Robotics Engineer", res.Listings[0].Title)
	assert.Equal(t, "https://careers.acme.example", res.Listings[1].ApplyURL, "missing apply URL defaults to the careers page")
	assert.Empty(t, res.Listings[1].Title, "titleless listings are retained")
}

func TestDiscoverFailedExtractionIsTerminal(t *testing.T) {
	extract := &fakeExtractor{updates: []capability.ExtractUpdate{
		{Status: capability.ExtractProcessing},
		{Status: capability.ExtractFailed},
	}}
	agent := newTestJobsAgent(careersSearcher(), careersGen("https://careers.acme.example"), extract)

	res := agent.Discover(context.Background(), "Acme", "")

	assert.Empty(t, res.Listings)
	assert.Contains(t, res.Err, "failed")
	assert.Equal(t, 2, extract.pollCalls, "a terminal failure must not exhaust the retry budget")
}

func TestDiscoverRetriesAfterTransientPollError(t *testing.T) {
	extract := &fakeExtractor{
		pollErrs: []error{capability.NewError(capability.KindExtract, "firecrawl.poll", errors.New("connection reset"))},
		updates: []capability.ExtractUpdate{
			{},
			{Status: capability.ExtractCompleted, Data: map[string]interface{}{
				"jobs": []interface{}{
					map[string]interface{}{"title": "Engineer", "apply_url": "https://careers.acme.example/1"},
				},
			}},
		},
	}
	agent := newTestJobsAgent(careersSearcher(), careersGen("https://careers.acme.example"), extract)

	res := agent.Discover(context.Background(), "Acme", "")

	require.Len(t, res.Listings, 1, "a transient poll error consumes an attempt, it does not abort")
	assert.Empty(t, res.Err)
	assert.Equal(t, 2, extract.pollCalls)
}

func TestDiscoverTransientPollErrorsCountAgainstBudget(t *testing.T) {
	blip := capability.NewError(capability.KindExtract, "firecrawl.poll", errors.New("timeout"))
	extract := &fakeExtractor{
		pollErrs: []error{blip, blip, blip, blip},
		updates:  make([]capability.ExtractUpdate, 4),
	}
	agent := newTestJobsAgent(careersSearcher(), careersGen("https://careers.acme.example"), extract)

	res := agent.Discover(context.Background(), "Acme", "")

	assert.Empty(t, res.Listings)
	assert.Contains(t, res.Err, "timed out")
	assert.Equal(t, 4, extract.pollCalls, "retried errors still exhaust the attempt cap")
}

func TestDiscoverNonCapabilityPollErrorAborts(t *testing.T) {
	extract := &fakeExtractor{pollErr: errors.New("handler wedged")}
	agent := newTestJobsAgent(careersSearcher(), careersGen("https://careers.acme.example"), extract)

	res := agent.Discover(context.Background(), "Acme", "")

	assert.Empty(t, res.Listings)
	assert.Contains(t, res.Err, "wedged")
	assert.Equal(t, 1, extract.pollCalls)
}

func TestDiscoverExhaustedPollingIsTimeout(t *testing.T) {
	extract := &fakeExtractor{updates: []capability.ExtractUpdate{
		{Status: capability.ExtractProcessing},
	}}
	agent := newTestJobsAgent(careersSearcher(), careersGen("https://careers.acme.example"), extract)

	res := agent.Discover(context.Background(), "Acme", "")

	assert.Empty(t, res.Listings)
	assert.Contains(t, res.Err, "timed out")
	assert.Equal(t, 4, extract.pollCalls)
}

func TestIsCareersURL(t *testing.T) {
	valid := []string{
		"https://careers.acme.example",
		"https://jobs.acme.example/openings",
		"https://boards.greenhouse.io/acme",
		"https://acme.example/careers",
		"https://acme.example/jobs/engineering",
		"https://www.linkedin.com/company/acme/jobs",
	}
	invalid := []string{
		"",
		"acme.example/careers",
		"https://acme.example",
		"https://acme.example/about",
		"https://blog.acme.example/post",
	}
	for _, u := range valid {
		assert.True(t, isCareersURL(u), u)
	}
	for _, u := range invalid {
		assert.False(t, isCareersURL(u), u)
	}
}
