package research

import (
	"context"
	"fmt"
	"strings"

	"researcher/internal/logger"
)

// ProgressFunc is invoked exactly once per completed stage with the current
// record. A non-nil return aborts the run; it is the only failure mode the
// pipeline itself can surface.
type ProgressFunc func(stage Stage, rec *Record) error

// Pipeline drives the fixed stage sequence init, profile, news, jobs,
// brief over one record. Stage failures are contained inside the agents;
// the pipeline always advances.
type Pipeline struct {
	profile *ProfileAgent
	news    *NewsAgent
	jobs    *JobsAgent
	brief   *BriefAgent
	log     *logger.Logger
}

func NewPipeline(profile *ProfileAgent, news *NewsAgent, jobs *JobsAgent, brief *BriefAgent) *Pipeline {
	return &Pipeline{profile: profile, news: news, jobs: jobs, brief: brief, log: logger.New("Pipeline")}
}

// Run executes every stage in order and returns the final record. The only
// errors it returns come from the progress callback.
func (p *Pipeline) Run(ctx context.Context, seed Seed, progress ProgressFunc) (*Record, error) {
	rec := NewRecord(seed)

	p.runInit(rec)
	if err := progress(StageInit, rec); err != nil {
		return rec, fmt.Errorf("persist after %s: %w", StageInit, err)
	}

	p.runProfile(ctx, rec)
	if err := progress(StageProfile, rec); err != nil {
		return rec, fmt.Errorf("persist after %s: %w", StageProfile, err)
	}

	p.runNews(ctx, rec)
	if err := progress(StageNews, rec); err != nil {
		return rec, fmt.Errorf("persist after %s: %w", StageNews, err)
	}

	p.runJobs(ctx, rec)
	if err := progress(StageJobs, rec); err != nil {
		return rec, fmt.Errorf("persist after %s: %w", StageJobs, err)
	}

	p.runBrief(ctx, rec)
	if err := progress(StageBrief, rec); err != nil {
		return rec, fmt.Errorf("persist after %s: %w", StageBrief, err)
	}

	return rec, nil
}

// runInit classifies the seed. A raw input with a URL scheme is an explicit
// URL, not a name; an explicit url field always wins. A LinkedIn company
// URL and a website URL are mutually exclusive outcomes of one seed.
func (p *Pipeline) runInit(rec *Record) {
	input := strings.TrimSpace(rec.Seed.RawInput)
	explicit := strings.TrimSpace(rec.Seed.ExplicitURL)

	if explicit == "" && hasScheme(input) {
		explicit = input
		input = ""
	}
	rec.CompanyName = input
	if explicit == "" {
		return
	}
	if isLinkedInCompanyURL(explicit) {
		rec.LinkedInURL = explicit
	} else {
		rec.WebsiteURL = explicit
	}
}

func (p *Pipeline) runProfile(ctx context.Context, rec *Record) {
	res := p.profile.Resolve(ctx, rec.CompanyName, rec.LinkedInURL, rec.WebsiteURL)
	rec.Profile = res.Profile
	rec.WebsiteExcerpt = res.WebsiteExcerpt
	if res.CompanyName != "" {
		rec.CompanyName = res.CompanyName
	}
	if res.WebsiteURL != "" {
		rec.WebsiteURL = res.WebsiteURL
	}
	if res.LinkedInURL != "" {
		rec.LinkedInURL = res.LinkedInURL
	}
	if res.Provenance == ProvenanceNone {
		rec.setError(StageProfile, "no identity data obtained")
	}
	p.log.LogInfof("profile stage resolved %q via %s", rec.CompanyName, res.Provenance)
}

func (p *Pipeline) runNews(ctx context.Context, rec *Record) {
	rec.NewsSummary = p.news.Summarize(ctx, rec.CompanyName)
	if rec.NewsSummary == NewsSentinel {
		rec.setError(StageNews, NewsSentinel)
	}
}

func (p *Pipeline) runJobs(ctx context.Context, rec *Record) {
	res := p.jobs.Discover(ctx, rec.CompanyName, rec.WebsiteURL)
	rec.JobListings = res.Listings
	rec.CareersURL = res.CareersURL
	rec.setError(StageJobs, res.Err)
}

func (p *Pipeline) runBrief(ctx context.Context, rec *Record) {
	res := p.brief.Synthesize(ctx, rec.CompanyName, rec.Profile, rec.NewsSummary, rec.WebsiteExcerpt, rec.JobListings)
	rec.Brief = res.Brief
	rec.setError(StageBrief, res.Err)
}
