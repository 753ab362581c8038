package matching

import (
	"context"
	"strings"

	"jobmate/matching-service/internal/model"
)

// ContextScorer scores how well a user's free-text career narrative fits
// a job. It takes a context.Context because richer implementations (an
// embedding-similarity call against the AI coach) may suspend; the
// keyword implementation below is synchronous but callers must not
// assume that.
type ContextScorer interface {
	Name() string
	Score(ctx context.Context, profileContext string, job *model.Job) (float64, error)
}

// contextStopwords filters generic resume boilerplate so it cannot
// inflate the match ratio.
var contextStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "have": true, "has": true, "are": true, "was": true,
	"will": true, "can": true, "not": true, "but": true, "from": true,
	"into": true, "over": true, "about": true, "also": true, "more": true,
	"than": true, "where": true, "when": true, "been": true, "their": true,
	"your": true, "our": true, "who": true, "what": true, "all": true,
	"experience": true, "experienced": true, "work": true, "working": true,
	"worked": true, "years": true, "year": true, "team": true, "teams": true,
	"looking": true, "seeking": true, "role": true, "roles": true,
	"opportunity": true, "opportunities": true, "skills": true,
	"skilled": true, "strong": true, "career": true, "company": true,
	"companies": true, "job": true, "jobs": true, "position": true,
	"positions": true, "passionate": true, "motivated": true,
	"responsible": true, "currently": true, "professional": true,
	"background": true, "interested": true, "ability": true,
}

// contextImportantTerms are seniority/role words and named
// domains/technologies. Matching one of these says far more about fit
// than a generic vocabulary overlap, so they are double-weighted.
var contextImportantTerms = map[string]bool{
	// seniority / role
	"senior": true, "junior": true, "lead": true, "staff": true,
	"principal": true, "head": true, "chief": true, "director": true,
	"manager": true, "engineer": true, "engineering": true,
	"developer": true, "designer": true, "analyst": true,
	"scientist": true, "architect": true, "consultant": true,
	"researcher": true, "founder": true, "product": true,
	// domains / technologies
	"python": true, "golang": true, "java": true, "javascript": true,
	"typescript": true, "react": true, "node": true, "rust": true,
	"kubernetes": true, "docker": true, "aws": true, "gcp": true,
	"azure": true, "sql": true, "postgresql": true, "redis": true,
	"data": true, "machine": true, "learning": true, "analytics": true,
	"backend": true, "frontend": true, "fullstack": true, "mobile": true,
	"android": true, "ios": true, "cloud": true, "devops": true,
	"security": true, "blockchain": true, "fintech": true, "saas": true,
	"marketing": true, "design": true, "sales": true, "growth": true,
	"api": true, "infrastructure": true, "platform": true,
}

// KeywordContextScorer is the default ContextScorer: a weighted keyword
// overlap between the career narrative and the job's title plus
// description. It never returns an error.
type KeywordContextScorer struct{}

// Name identifies the strategy in logs and the service config.
func (KeywordContextScorer) Name() string { return "keyword" }

// Score returns the weighted fraction of narrative terms found in the
// job text. Stopwords are dropped first; important terms count double in
// both numerator and denominator.
func (KeywordContextScorer) Score(_ context.Context, profileContext string, job *model.Job) (float64, error) {
	terms := contextTerms(profileContext)
	if len(terms) == 0 {
		return 0, nil
	}

	jobText := strings.ToLower(job.Title + " " + job.DescriptionText)

	var matched, total float64
	for _, term := range terms {
		weight := 1.0
		if contextImportantTerms[term] {
			weight = 2.0
		}
		total += weight
		if strings.Contains(jobText, term) {
			matched += weight
		}
	}

	return matched / total, nil
}

// contextTerms extracts the unique scoreable words from a narrative.
func contextTerms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 || contextStopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

func describeContextSimilarity(raw float64) string {
	if raw >= 0.5 {
		return "Strongly aligned with your career goals"
	}
	return "Aligned with parts of your career goals"
}
