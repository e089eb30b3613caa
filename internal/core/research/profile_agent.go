package research

import (
	"context"
	"fmt"
	"strings"

	"researcher/internal/capability"
	"researcher/internal/logger"
	"researcher/prompts"
)

const (
	websiteExcerptChars = 4000
	descriptionMaxChars = 600
)

// ProfileResult is everything the profile stage may contribute back to the
// record. Zero-value fields mean "nothing discovered"; Provenance is always
// set.
type ProfileResult struct {
	Profile        *Profile
	CompanyName    string
	WebsiteURL     string
	LinkedInURL    string
	WebsiteExcerpt string
	Provenance     Provenance
}

// ProfileAgent resolves company identity through a strict fallback chain:
// identity lookup first, website extraction second, nothing third. Every
// capability failure degrades to the next tier; Resolve never returns an
// error.
type ProfileAgent struct {
	search     capability.Searcher
	scrape     capability.Scraper
	gen        capability.Generator
	lookup     capability.ProfileLookup
	maxResults int
	log        *logger.Logger
}

func NewProfileAgent(search capability.Searcher, scrape capability.Scraper, gen capability.Generator, lookup capability.ProfileLookup, maxResults int) *ProfileAgent {
	return &ProfileAgent{
		search:     search,
		scrape:     scrape,
		gen:        gen,
		lookup:     lookup,
		maxResults: maxResults,
		log:        logger.New("ProfileAgent"),
	}
}

func (a *ProfileAgent) Resolve(ctx context.Context, companyName, linkedinURL, websiteURL string) ProfileResult {
	res := ProfileResult{Provenance: ProvenanceNone}

	identityURL := linkedinURL
	if identityURL == "" && companyName != "" {
		identityURL = a.findLinkedInURL(ctx, companyName)
	}
	if identityURL != "" {
		res.LinkedInURL = identityURL
		if p := a.lookupIdentity(ctx, identityURL); p != nil {
			a.humanize(ctx, p)
			res.Profile = p
			res.Provenance = ProvenanceLinkedIn
			if p.Name != "" {
				res.CompanyName = p.Name
			}
			if p.Website != "" && websiteURL == "" {
				res.WebsiteURL = p.Website
			}
			return res
		}
		a.log.LogWarnf("identity lookup failed for %s, falling back to website", identityURL)
	}

	// Website tier: the provided URL wins over search discovery.
	wURL := websiteURL
	if wURL == "" && companyName != "" {
		wURL = a.findWebsiteURL(ctx, companyName)
	}
	if wURL != "" {
		res.WebsiteURL = wURL
		page, err := a.scrape.Scrape(ctx, wURL)
		if err != nil || page == nil || page.Content == "" {
			a.log.LogWarnf("website scrape failed for %s: %v", wURL, err)
			return res
		}
		res.WebsiteExcerpt = truncate(page.Content, websiteExcerptChars)
		if p := a.extractFromWebsite(ctx, companyName, res.WebsiteExcerpt, wURL); p != nil {
			res.Profile = p
			res.Provenance = ProvenanceWebsite
			if companyName == "" && page.Title != "" {
				res.CompanyName = page.Title
			}
		}
	}
	return res
}

// findLinkedInURL searches for the company's LinkedIn page and asks the
// generator to pick the best hit. Any failure or invalid pick yields "".
func (a *ProfileAgent) findLinkedInURL(ctx context.Context, companyName string) string {
	query := fmt.Sprintf("%s company profile site:linkedin.com/company", companyName)
	url := a.pickURL(ctx, query, func(results string) string {
		return prompts.LinkedInURL(companyName, results)
	})
	if !isLinkedInCompanyURL(url) {
		return ""
	}
	return url
}

func (a *ProfileAgent) findWebsiteURL(ctx context.Context, companyName string) string {
	query := fmt.Sprintf("%s official website", companyName)
	url := a.pickURL(ctx, query, func(results string) string {
		return prompts.WebsiteURL(companyName, results)
	})
	if !hasScheme(url) {
		return ""
	}
	return url
}

// pickURL runs search + structured generation with a single-URL spec.
func (a *ProfileAgent) pickURL(ctx context.Context, query string, prompt func(results string) string) string {
	results, err := a.search.Search(ctx, query, a.maxResults)
	if err != nil || len(results) == 0 {
		a.log.LogDebugf("search failed for %q: %v", query, err)
		return ""
	}
	out, err := a.gen.Generate(ctx, prompt(prompts.FormatSearchResults(results)), prompts.URLSpec)
	if err != nil {
		a.log.LogDebugf("url pick failed for %q: %v", query, err)
		return ""
	}
	url, _ := out["url"].(string)
	return strings.TrimSpace(url)
}

// lookupIdentity calls the profile lookup and maps its payload. Returns nil
// when the call fails, reports success=false, or lacks a canonical name.
func (a *ProfileAgent) lookupIdentity(ctx context.Context, identityURL string) *Profile {
	data, err := a.lookup.Lookup(ctx, identityURL)
	if err != nil || data == nil {
		return nil
	}
	if ok, present := data["success"].(bool); present && !ok {
		return nil
	}
	name := getString(data, "name", "company_name")
	if name == "" {
		return nil
	}
	return &Profile{
		Name:          name,
		Description:   getString(data, "description", "about"),
		Industry:      getString(data, "industry"),
		Headquarters:  getString(data, "headquarters", "hq", "location"),
		Founded:       getString(data, "founded", "founded_year"),
		CompanySize:   getString(data, "company_size", "size"),
		Website:       getString(data, "website", "website_url"),
		Specialties:   getStrings(data, "specialties", "specialities"),
		Followers:     getInt(data, "followers", "follower_count"),
		EmployeeCount: getInt(data, "employee_count", "employees"),
		Provenance:    ProvenanceLinkedIn,
	}
}

// humanize rewrites the raw identity description into a short narrative,
// in place. A failed rewrite keeps the original text.
func (a *ProfileAgent) humanize(ctx context.Context, p *Profile) {
	if p.Description == "" {
		return
	}
	out, err := a.gen.Generate(ctx, prompts.Humanize(p.Name, truncate(p.Description, 2000)), prompts.HumanizeSpec)
	if err != nil {
		a.log.LogDebugf("humanize pass failed: %v", err)
		return
	}
	if d, _ := out["description"].(string); strings.TrimSpace(d) != "" {
		p.Description = truncate(strings.TrimSpace(d), descriptionMaxChars)
	}
}

func (a *ProfileAgent) extractFromWebsite(ctx context.Context, companyName, excerpt, websiteURL string) *Profile {
	out, err := a.gen.Generate(ctx, prompts.WebsiteProfile(companyName, excerpt), prompts.WebsiteProfileSpec)
	if err != nil {
		a.log.LogDebugf("website extraction failed: %v", err)
		return nil
	}
	p := &Profile{
		Name:         companyName,
		Description:  getString(out, "description"),
		Industry:     getString(out, "industry"),
		Headquarters: getString(out, "headquarters"),
		Founded:      getString(out, "founded"),
		Website:      websiteURL,
		Provenance:   ProvenanceWebsite,
	}
	if p.Description == "" && p.Industry == "" && p.Headquarters == "" && p.Founded == "" {
		return nil
	}
	return p
}

func getString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func getStrings(m map[string]interface{}, keys ...string) []string {
	for _, k := range keys {
		raw, ok := m[k].([]interface{})
		if !ok {
			continue
		}
		var out []string
		for _, item := range raw {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func getInt(m map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}
