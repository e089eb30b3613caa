package research

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"researcher/internal/capability"
	"researcher/internal/logger"
	"researcher/internal/utils/poll"
	"researcher/prompts"
)

// atsDomains are applicant-tracking systems whose hosted pages count as
// official careers pages.
var atsDomains = []string{
	"greenhouse.io",
	"lever.co",
	"workable.com",
	"ashbyhq.com",
	"bamboohr.com",
	"smartrecruiters.com",
}

// JobsResult is the jobs stage outcome. Err is a degradation message, not a
// failure signal: Listings is always usable (possibly empty).
type JobsResult struct {
	Listings   []JobListing
	CareersURL string
	Err        string
}

// JobsAgent locates the official careers page and runs an asynchronous
// structured extraction against it, polling until a terminal status or the
// attempt budget runs out. Discover never raises past its boundary.
type JobsAgent struct {
	search       capability.Searcher
	gen          capability.Generator
	extract      capability.Extractor
	maxResults   int
	pollInterval time.Duration
	pollAttempts int
	log          *logger.Logger
}

func NewJobsAgent(search capability.Searcher, gen capability.Generator, extract capability.Extractor, maxResults int, pollInterval time.Duration, pollAttempts int) *JobsAgent {
	return &JobsAgent{
		search:       search,
		gen:          gen,
		extract:      extract,
		maxResults:   maxResults,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		log:          logger.New("JobsAgent"),
	}
}

func (a *JobsAgent) Discover(ctx context.Context, companyName, companyURL string) JobsResult {
	careersURL := a.locate(ctx, companyName, companyURL)
	if careersURL == "" {
		return JobsResult{Listings: []JobListing{}, Err: "no careers page found"}
	}

	listings, err := a.extractListings(ctx, careersURL)
	if err != nil {
		a.log.LogWarnf("job extraction failed for %s: %v", careersURL, err)
		return JobsResult{Listings: []JobListing{}, CareersURL: careersURL, Err: err.Error()}
	}
	a.log.LogInfof("extracted %d job listings from %s", len(listings), careersURL)
	return JobsResult{Listings: listings, CareersURL: careersURL}
}

// locate searches for the careers page and lets the generator rank the hits.
// An invalid or unvalidated pick yields "".
func (a *JobsAgent) locate(ctx context.Context, companyName, companyURL string) string {
	query := fmt.Sprintf("%s official careers page open positions", companyName)
	if host := hostOf(companyURL); host != "" {
		query = fmt.Sprintf("%s careers jobs site:%s OR %s open positions", companyName, host, companyName)
	}
	results, err := a.search.Search(ctx, query, a.maxResults)
	if err != nil || len(results) == 0 {
		a.log.LogWarnf("careers search failed for %s: %v", companyName, err)
		return ""
	}
	out, err := a.gen.Generate(ctx, prompts.CareersURL(companyName, prompts.FormatSearchResults(results)), prompts.CareersURLSpec)
	if err != nil {
		a.log.LogWarnf("careers url pick failed for %s: %v", companyName, err)
		return ""
	}
	picked, _ := out["url"].(string)
	picked = strings.TrimSpace(picked)
	if !isCareersURL(picked) {
		a.log.LogDebugf("discarding non-careers pick %q", picked)
		return ""
	}
	return picked
}

// extractListings submits the async extraction and polls to a terminal state.
func (a *JobsAgent) extractListings(ctx context.Context, careersURL string) ([]JobListing, error) {
	handle, err := a.extract.Submit(ctx, careersURL, prompts.JobsExtractSchema(), prompts.JobsExtractInstruction)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	err = poll.Until(ctx, a.pollInterval, a.pollAttempts, func(ctx context.Context) (bool, error) {
		update, err := a.extract.Poll(ctx, handle)
		if err != nil {
			// A transient poll failure is not a terminal status; it
			// consumes an attempt and the loop carries on.
			if capability.IsRecoverable(err) {
				a.log.LogWarnf("poll attempt for %s failed: %v", handle, err)
				return false, nil
			}
			return false, err
		}
		switch update.Status {
		case capability.ExtractCompleted:
			data = update.Data
			return true, nil
		case capability.ExtractFailed, capability.ExtractCancelled:
			return false, fmt.Errorf("extraction %s", update.Status)
		default:
			return false, nil
		}
	})
	if errors.Is(err, poll.ErrExhausted) {
		return nil, fmt.Errorf("extraction timed out after %d attempts", a.pollAttempts)
	}
	if err != nil {
		return nil, err
	}
	return mapListings(data, careersURL), nil
}

// mapListings converts the raw extraction payload, defaulting a missing
// apply URL to the careers page and keeping entries without titles.
func mapListings(data map[string]interface{}, careersURL string) []JobListing {
	listings := []JobListing{}
	if data == nil {
		return listings
	}
	raw, _ := data["jobs"].([]interface{})
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		l := JobListing{
			Title:      getString(m, "title"),
			Location:   getString(m, "location"),
			ApplyURL:   getString(m, "apply_url"),
			PostedDate: getString(m, "posted_date"),
		}
		if l.ApplyURL == "" {
			l.ApplyURL = careersURL
		}
		if l.ApplyURL == "" {
			continue
		}
		listings = append(listings, l)
	}
	return listings
}

// isCareersURL accepts a URL only if it matches the locate priority
// patterns: careers subdomain, ATS page, /careers or /jobs path, or a
// LinkedIn jobs sub-page.
func isCareersURL(s string) bool {
	if !hasScheme(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	path := strings.ToLower(u.Path)

	if strings.HasPrefix(host, "careers.") || strings.HasPrefix(host, "jobs.") {
		return true
	}
	for _, ats := range atsDomains {
		if host == ats || strings.HasSuffix(host, "."+ats) {
			return true
		}
	}
	if strings.Contains(path, "/careers") || strings.Contains(path, "/jobs") {
		return true
	}
	return false
}

func hostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
