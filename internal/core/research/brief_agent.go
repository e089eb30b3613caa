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
	briefSummaryMax       = 420
	briefPositioningMax   = 240
	briefHiringContextMax = 240
	briefTalkingPointMax  = 140
	briefTalkingPointsCap = 5
	briefProfileDescMax   = 500
	briefWebsiteMax       = 3000
	briefSampleTitles     = 3
)

// BriefResult is the brief stage outcome. Brief is always non-nil; Err
// carries the degradation message when the fallback path was taken.
type BriefResult struct {
	Brief *Brief
	Err   string
}

// BriefAgent synthesizes the client brief from everything gathered so far.
// One structured generation call; on failure it builds a deterministic
// fallback from local fields with no further network calls.
type BriefAgent struct {
	gen capability.Generator
	log *logger.Logger
}

func NewBriefAgent(gen capability.Generator) *BriefAgent {
	return &BriefAgent{gen: gen, log: logger.New("BriefAgent")}
}

func (a *BriefAgent) Synthesize(ctx context.Context, companyName string, profile *Profile, newsSummary, websiteExcerpt string, listings []JobListing) BriefResult {
	prompt := prompts.Brief(
		companyName,
		profileExcerpt(profile),
		truncate(websiteExcerpt, briefWebsiteMax),
		newsExcerpt(newsSummary),
		jobsBrief(listings),
	)
	out, err := a.gen.Generate(ctx, prompt, prompts.BriefSpec)
	if err != nil {
		a.log.LogWarnf("brief synthesis failed for %s: %v", companyName, err)
		return BriefResult{Brief: fallbackBrief(companyName, profile), Err: err.Error()}
	}

	b := &Brief{
		CompanyName:   companyName,
		Summary:       getString(out, "summary"),
		Positioning:   getString(out, "positioning"),
		HiringContext: getString(out, "hiring_context"),
		TalkingPoints: getStrings(out, "talking_points"),
		Tone:          getString(out, "tone"),
		SourcesUsed:   getStrings(out, "sources_used"),
	}
	if n := getString(out, "company_name"); n != "" {
		b.CompanyName = n
	}
	postprocess(b)
	if b.Summary == "" {
		a.log.LogWarnf("brief synthesis returned no summary for %s", companyName)
		return BriefResult{Brief: fallbackBrief(companyName, profile), Err: "empty summary"}
	}
	return BriefResult{Brief: b}
}

// postprocess enforces per-field character budgets and drops empty talking
// points.
func postprocess(b *Brief) {
	b.Summary = truncate(strings.TrimSpace(b.Summary), briefSummaryMax)
	b.Positioning = truncate(strings.TrimSpace(b.Positioning), briefPositioningMax)
	b.HiringContext = truncate(strings.TrimSpace(b.HiringContext), briefHiringContextMax)
	b.Tone = strings.TrimSpace(b.Tone)

	points := make([]string, 0, briefTalkingPointsCap)
	for _, p := range b.TalkingPoints {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		points = append(points, truncate(p, briefTalkingPointMax))
		if len(points) == briefTalkingPointsCap {
			break
		}
	}
	b.TalkingPoints = points
}

// fallbackBrief builds a brief from locally available fields only.
func fallbackBrief(companyName string, profile *Profile) *Brief {
	b := &Brief{
		CompanyName: companyName,
		Summary:     fmt.Sprintf("%s is a company we could not fully research automatically.", companyName),
		Tone:        "neutral",
	}
	if profile != nil {
		if profile.Description != "" {
			b.Summary = truncate(profile.Description, briefSummaryMax)
		}
		if profile.Industry != "" {
			b.TalkingPoints = append(b.TalkingPoints, "Industry: "+profile.Industry)
		}
		if profile.Headquarters != "" {
			b.TalkingPoints = append(b.TalkingPoints, "Headquarters: "+profile.Headquarters)
		}
		if profile.CompanySize != "" {
			b.TalkingPoints = append(b.TalkingPoints, "Company size: "+profile.CompanySize)
		}
	}
	return b
}

// profileExcerpt renders profile fields as bounded key/value lines.
func profileExcerpt(p *Profile) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	add := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	add("Name", p.Name)
	add("Description", truncate(p.Description, briefProfileDescMax))
	add("Industry", p.Industry)
	add("Headquarters", p.Headquarters)
	add("Founded", p.Founded)
	add("Company size", p.CompanySize)
	if len(p.Specialties) > 0 {
		add("Specialties", strings.Join(p.Specialties, ", "))
	}
	return b.String()
}

func newsExcerpt(summary string) string {
	if summary == NewsSentinel {
		return ""
	}
	return summary
}

// jobsBrief renders only a count plus a few sample titles. The full list is
// shown separately by the caller and never enters the prompt.
func jobsBrief(listings []JobListing) string {
	if len(listings) == 0 {
		return "No open positions found."
	}
	titles := make([]string, 0, briefSampleTitles)
	for _, l := range listings {
		if l.Title == "" {
			continue
		}
		titles = append(titles, l.Title)
		if len(titles) == briefSampleTitles {
			break
		}
	}
	out := fmt.Sprintf("%d open positions.", len(listings))
	if len(titles) > 0 {
		out += " Sample titles: " + strings.Join(titles, "; ")
	}
	return out
}
