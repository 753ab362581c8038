package matching

import (
	"fmt"
	"strings"
	"time"

	"jobmate/matching-service/internal/model"
)

// ─── Skill overlap ───────────────────────────────────────────────────────────

// scoreSkillOverlap divides the case-insensitive intersection of job and
// user skills by the size of the *smaller* set. Dividing by the union
// would punish a user for knowing more than the job lists (or a job for
// listing more than the user has). Zero if either set is empty.
func scoreSkillOverlap(jobSkills, userSkills []string) (score float64, shared []string) {
	if len(jobSkills) == 0 || len(userSkills) == 0 {
		return 0, nil
	}

	userSet := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		userSet[strings.ToLower(strings.TrimSpace(s))] = true
	}

	seen := make(map[string]bool, len(jobSkills))
	for _, s := range jobSkills {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if userSet[key] {
			shared = append(shared, s)
		}
	}

	smaller := len(jobSkills)
	if len(userSkills) < smaller {
		smaller = len(userSkills)
	}

	return float64(len(shared)) / float64(smaller), shared
}

func describeSkillOverlap(shared []string) string {
	if len(shared) == 1 {
		return fmt.Sprintf("You share the required skill %s", shared[0])
	}
	return fmt.Sprintf("You share %d required skills: %s", len(shared), strings.Join(shared, ", "))
}

// ─── Seniority alignment ─────────────────────────────────────────────────────

// scoreSeniorityAlignment scores by absolute distance on the career
// ladder: same level 1.0, one step 0.8, two steps 0.5, further 0.2.
// Either side unset scores a neutral 0.5 — missing data should not be
// punished as a total mismatch.
func scoreSeniorityAlignment(jobLevel, userLevel model.Seniority) float64 {
	jobOrd, jobOK := jobLevel.Ordinal()
	userOrd, userOK := userLevel.Ordinal()
	if !jobOK || !userOK {
		return 0.5
	}

	distance := jobOrd - userOrd
	if distance < 0 {
		distance = -distance
	}

	switch distance {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	}
	return 0.2
}

func describeSeniorityAlignment(raw float64, jobLevel model.Seniority) string {
	if raw >= 1.0 {
		return fmt.Sprintf("Seniority level %s matches yours exactly", seniorityLabel(jobLevel))
	}
	if jobLevel == model.SeniorityUnset {
		return "Job does not state a seniority level"
	}
	return fmt.Sprintf("Seniority level %s is close to yours", seniorityLabel(jobLevel))
}

func seniorityLabel(s model.Seniority) string {
	if s == model.SeniorityUnset {
		return "unspecified"
	}
	return strings.ToLower(string(s))
}

// ─── Location fit ────────────────────────────────────────────────────────────

// scoreLocationFit is 1.0 when the user has no location preference or
// either side allows Worldwide, 1.0 on any country overlap, else 0.
func scoreLocationFit(job *model.Job, profile *model.UserJobProfile) float64 {
	if len(profile.LocationsAllowed) == 0 {
		return 1.0
	}
	if containsFold(job.AllowedCountries, model.Worldwide) || containsFold(profile.LocationsAllowed, model.Worldwide) {
		return 1.0
	}
	if countriesOverlap(job.AllowedCountries, profile.LocationsAllowed) {
		return 1.0
	}
	return 0
}

func describeLocationFit(job *model.Job) string {
	if containsFold(job.AllowedCountries, model.Worldwide) {
		return "Open to applicants worldwide"
	}
	return "Hiring in a country you can work from"
}

// ─── Freshness ───────────────────────────────────────────────────────────────

// scoreFreshness decays by posting age in whole days: up to a week 1.0,
// two weeks 0.8, a month 0.6, two months 0.4, then a 0.2 floor — an old
// but otherwise excellent match should still surface, just lower.
func scoreFreshness(job *model.Job, now time.Time) (score float64, ageDays int) {
	posted := job.EffectivePostedAt()
	if posted.IsZero() {
		return 0.2, -1
	}

	ageDays = int(now.Sub(posted).Hours() / 24)

	switch {
	case ageDays <= 7:
		return 1.0, ageDays
	case ageDays <= 14:
		return 0.8, ageDays
	case ageDays <= 30:
		return 0.6, ageDays
	case ageDays <= 60:
		return 0.4, ageDays
	}
	return 0.2, ageDays
}

func describeFreshness(ageDays int) string {
	switch {
	case ageDays < 0:
		return "Posting date unknown"
	case ageDays == 0:
		return "Posted today"
	case ageDays == 1:
		return "Posted yesterday"
	case ageDays <= 14:
		return fmt.Sprintf("Posted %d days ago", ageDays)
	}
	return fmt.Sprintf("Posted about %d weeks ago", ageDays/7)
}

// ─── Source quality ──────────────────────────────────────────────────────────

// sourceQualityTable reflects curation trust per ingestion source:
// hand-curated remote boards near 1.0, high-volume aggregators lower.
var sourceQualityTable = map[string]float64{
	"weworkremotely": 0.95,
	"remoteok":       0.90,
	"himalayas":      0.85,
	"adzuna":         0.70,
	"indeed":         0.60,
	"jsearch":        0.55,
}

// defaultSourceQuality applies to sources missing from the table.
const defaultSourceQuality = 0.5

func scoreSourceQuality(source string) float64 {
	if q, ok := sourceQualityTable[strings.ToLower(strings.TrimSpace(source))]; ok {
		return q
	}
	return defaultSourceQuality
}

func describeSourceQuality(raw float64, source string) string {
	if raw >= 0.85 {
		return fmt.Sprintf("Listed on %s, a curated job board", source)
	}
	return fmt.Sprintf("Listed on %s", source)
}

// ─── Query relevance ─────────────────────────────────────────────────────────

// scoreQueryRelevance returns the fraction of query words (longer than
// two characters) found as substrings anywhere in the job's combined
// title, company, description and skills text. Only computed when the
// caller supplied a free-text query.
func scoreQueryRelevance(job *model.Job, query string) (score float64, matched []string) {
	words := queryWords(query)
	if len(words) == 0 {
		return 0, nil
	}

	haystack := strings.ToLower(
		job.Title + " " + job.CompanyName + " " + job.DescriptionText + " " + strings.Join(job.Skills, " "),
	)

	for _, w := range words {
		if strings.Contains(haystack, w) {
			matched = append(matched, w)
		}
	}

	return float64(len(matched)) / float64(len(words)), matched
}

func queryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if len(f) <= 2 || seen[f] {
			continue
		}
		seen[f] = true
		words = append(words, f)
	}
	return words
}

func describeQueryRelevance(matched []string) string {
	return fmt.Sprintf("Mentions your search terms: %s", strings.Join(matched, ", "))
}
