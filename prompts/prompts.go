// Package prompts holds the prompt builders and output specs used by the
// research agents. Keeping them in one place makes wording changes cheap
// and keeps the agents free of string assembly noise.
package prompts

import (
	"fmt"
	"strings"

	"researcher/internal/capability"
)

// FormatSearchResults renders ranked search hits for inclusion in a prompt.
func FormatSearchResults(results []capability.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return b.String()
}

// URLSpec is the output spec for single-URL picks.
var URLSpec = map[string]interface{}{
	"url": "string",
}

// LinkedInURL asks for the best LinkedIn company-page URL from search hits.
func LinkedInURL(companyName, results string) string {
	return fmt.Sprintf(`Find the single best LinkedIn COMPANY profile URL for %s from these search results.
Only company pages qualify (linkedin.com/company/...). Reject personal profiles, posts and job listings.
If none of the results is a company page, return null.

SEARCH RESULTS:
%s`, companyName, results)
}

// WebsiteURL asks for the official homepage URL from search hits.
func WebsiteURL(companyName, results string) string {
	return fmt.Sprintf(`Extract the official homepage URL for %s from these search results.
Prefer the company's own domain over directories, social networks or news sites.
If none of the results is the official website, return null.

SEARCH RESULTS:
%s`, companyName, results)
}

// CareersURLSpec is the output spec for the careers-page pick.
var CareersURLSpec = map[string]interface{}{
	"url":       "string",
	"reasoning": "string",
}

// CareersURL asks for the official careers/jobs page with an explicit
// priority ranking.
func CareersURL(companyName, results string) string {
	return fmt.Sprintf(`Find the official page listing open jobs for %s from these search results.

Priority order:
1. A dedicated careers subdomain (careers.example.com, jobs.example.com)
2. An applicant tracking system page (greenhouse.io, lever.co, workable.com, ashbyhq.com, bamboohr.com, smartrecruiters.com)
3. A /careers or /jobs path on the main company site
4. The company's LinkedIn jobs sub-page

Never pick the bare homepage, About/Contact/Team pages, or blog/press articles.
If no result qualifies, return null.

SEARCH RESULTS:
%s`, companyName, results)
}

// WebsiteProfileSpec is the output spec for website-based profile
// extraction.
var WebsiteProfileSpec = map[string]interface{}{
	"description":  "string",
	"industry":     "string",
	"headquarters": "string",
	"founded":      "string",
}

// WebsiteProfile asks for basic company facts from scraped homepage text.
func WebsiteProfile(companyName, excerpt string) string {
	return fmt.Sprintf(`Extract the following about %s from the website text below:
description (what the company does), industry, headquarters, founded (year).
Use null for anything the text does not state.

WEBSITE TEXT:
%s`, companyName, excerpt)
}

// HumanizeSpec is the output spec for the description rewrite pass.
var HumanizeSpec = map[string]interface{}{
	"description": "string",
}

// Humanize rewrites a raw company description into a short sales narrative.
func Humanize(companyName, description string) string {
	return fmt.Sprintf(`Rewrite this raw description of %s as a concise third-person narrative a salesperson could read aloud.
2-4 sentences, under 500 characters, plain language, no bullet points, no hype.
Keep only facts present in the original.

RAW DESCRIPTION:
%s`, companyName, description)
}

// NewsSummary asks for a compact plain-text news digest.
func NewsSummary(companyName, results string) string {
	return fmt.Sprintf(`Summarize the most important recent developments for %s based on these search results.
Focus on funding, product launches, major hires, or expansions.
Write one plain-text paragraph of 5-10 lines. No markdown, no bullet points, no headings.

SEARCH RESULTS:
%s`, companyName, results)
}

// JobsExtractInstruction is the instruction sent with the structured
// job-extraction submission.
const JobsExtractInstruction = "Extract all individual job postings. Fields: 'title' (the specific role name, never a location), 'location', 'apply_url' (direct link to apply), optional 'posted_date'. Ignore general page text."

// JobsExtractSchema is the JSON schema for the structured job extraction.
func JobsExtractSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"jobs": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title":       map[string]interface{}{"type": "string"},
						"location":    map[string]interface{}{"type": "string"},
						"apply_url":   map[string]interface{}{"type": "string"},
						"posted_date": map[string]interface{}{"type": "string"},
					},
					"required": []string{"apply_url"},
				},
			},
		},
		"required": []string{"jobs"},
	}
}

// BriefSpec is the output spec for client-brief synthesis.
var BriefSpec = map[string]interface{}{
	"company_name":   "string",
	"summary":        "string",
	"positioning":    "string",
	"hiring_context": "string",
	"talking_points": "array",
	"tone":           "string",
	"sources_used":   "array",
}

// Brief builds the synthesis prompt from bounded excerpts of everything
// gathered so far. Jobs and news are displayed separately by the caller,
// so the brief only sees counts and samples.
func Brief(companyName, profileExcerpt, websiteExcerpt, newsSummary, jobsBrief string) string {
	return fmt.Sprintf(`You create factual, concise company briefs for recruiters meeting prospective clients.
Use ONLY the provided data. Prefer website > profile > news for positioning.
No invented claims. Clear, plain language. Avoid hype unless quoted.

COMPANY_NAME: %s

WEBSITE_EXCERPT:
%s

PROFILE_DATA:
%s

NEWS_SUMMARY:
%s

JOBS_BRIEF:
%s

Note: jobs and news are shown separately in the UI; do not repeat lists. Provide only 1-2 sentences of hiring context if relevant.

Create a brief with:
- summary: 2-3 sentences about what they do, for whom, and where
- positioning: 1-2 sentences on focus/differentiation or products
- hiring_context: 1-2 sentences on recruiting-relevant signals
- talking_points: 3-5 bullet points tailored for a recruiter meeting
- tone: 1-3 words describing their communication style
- sources_used: tags like 'website#about', 'linkedin#description', 'news#1', 'jobs#count'`,
		companyName, orNA(websiteExcerpt), orNA(profileExcerpt), orNA(newsSummary), jobsBrief)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
