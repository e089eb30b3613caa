// Package research holds the pipeline's working state and the four stage
// agents. It depends only on the capability interfaces, so the whole
// research flow is testable with fakes and no infrastructure.
package research

import "strings"

// Stage names, in pipeline order.
type Stage string

const (
	StageInit    Stage = "init"
	StageProfile Stage = "profile"
	StageNews    Stage = "news"
	StageJobs    Stage = "jobs"
	StageBrief   Stage = "brief"
)

// Stages is the fixed execution order.
var Stages = []Stage{StageInit, StageProfile, StageNews, StageJobs, StageBrief}

// Provenance records which source ultimately produced the company profile.
type Provenance string

const (
	ProvenanceLinkedIn Provenance = "linkedin"
	ProvenanceWebsite  Provenance = "website"
	ProvenanceNone     Provenance = "none"
)

// Seed is the immutable request input: the raw user text plus an optional
// explicit URL. Set once at record creation, never mutated.
type Seed struct {
	RawInput    string `json:"raw_input"`
	ExplicitURL string `json:"explicit_url,omitempty"`
}

// Profile is the structured company profile assembled by the profile stage.
type Profile struct {
	Name          string     `json:"name,omitempty"`
	Description   string     `json:"description,omitempty"`
	Industry      string     `json:"industry,omitempty"`
	Headquarters  string     `json:"headquarters,omitempty"`
	Founded       string     `json:"founded,omitempty"`
	CompanySize   string     `json:"company_size,omitempty"`
	Website       string     `json:"website,omitempty"`
	Specialties   []string   `json:"specialties,omitempty"`
	Followers     int        `json:"followers,omitempty"`
	EmployeeCount int        `json:"employee_count,omitempty"`
	Provenance    Provenance `json:"provenance"`
}

// JobListing is one open position discovered on the careers page. ApplyURL
// is the load-bearing field; titles may be empty.
type JobListing struct {
	Title      string `json:"title,omitempty"`
	Location   string `json:"location,omitempty"`
	ApplyURL   string `json:"apply_url"`
	PostedDate string `json:"posted_date,omitempty"`
}

// Brief is the synthesized client brief.
type Brief struct {
	CompanyName   string   `json:"company_name"`
	Summary       string   `json:"summary"`
	Positioning   string   `json:"positioning,omitempty"`
	HiringContext string   `json:"hiring_context,omitempty"`
	TalkingPoints []string `json:"talking_points,omitempty"`
	Tone          string   `json:"tone,omitempty"`
	SourcesUsed   []string `json:"sources_used,omitempty"`
}

// Record is the shared whiteboard one pipeline run mutates additively.
// It is owned by exactly one in-flight run and never shared across requests.
type Record struct {
	Seed        Seed
	CompanyName string
	WebsiteURL  string
	LinkedInURL string
	CareersURL  string
	Profile     *Profile
	NewsSummary string
	JobListings []JobListing
	Brief       *Brief

	// WebsiteExcerpt carries scraped homepage text from the profile stage
	// to the brief stage. In-memory only, never persisted.
	WebsiteExcerpt string

	// Errors accumulates per-stage degradation messages. Appended to,
	// never cleared.
	Errors map[Stage]string
}

func NewRecord(seed Seed) *Record {
	return &Record{
		Seed:        seed,
		JobListings: []JobListing{},
		Errors:      map[Stage]string{},
	}
}

func (r *Record) setError(stage Stage, msg string) {
	if msg != "" {
		r.Errors[stage] = msg
	}
}

// hasScheme reports whether s starts with a URL scheme.
func hasScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// isLinkedInCompanyURL matches LinkedIn company pages only, never personal
// profiles or posts.
func isLinkedInCompanyURL(s string) bool {
	return hasScheme(s) && strings.Contains(s, "linkedin.com/company")
}

// truncate cuts s to at most max runes, trimming trailing whitespace.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " \t\n")
}
