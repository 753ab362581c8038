package matching

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"jobmate/matching-service/internal/model"
)

// maxReasons caps the reasons kept per match; the gateway shows at most
// five explanation lines.
const maxReasons = 5

// MatchReason is one scored factor contributing to a match. Score is the
// weighted contribution on the 0–100 scale, always positive — factors
// that contribute nothing are omitted rather than shown as zero.
type MatchReason struct {
	Factor      string  `json:"factor"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// InputsUsed records which optional signals were available when the
// match was computed, so the gateway can explain why a score changed
// between runs.
type InputsUsed struct {
	ProfileBasics  bool `json:"profileBasics"`
	ProfileContext bool `json:"profileContext"`
	Query          bool `json:"query"`
}

// Match is the outcome of ranking one job for one user. It is upserted
// into the matches table keyed on (user_id, job_id): a derived,
// idempotently-recomputable snapshot, not a source of truth.
type Match struct {
	UserID            string        `json:"userId"`
	JobID             string        `json:"jobId"`
	Score             int           `json:"score"`
	Reasons           []MatchReason `json:"reasons"`
	EligibilityPassed bool          `json:"eligibilityPassed"`
	InputsUsed        InputsUsed    `json:"inputsUsed"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// RankInputs bundles the per-user inputs for a ranking run.
type RankInputs struct {
	Profile *model.UserJobProfile
	// Query is an optional free-text search string from the request.
	Query string
	// UseProfileContext opts in to the profile-context similarity
	// factor when the profile carries a career narrative.
	UseProfileContext bool
}

// Ranker evaluates jobs against one immutable configuration. Build a new
// Ranker per call when the caller supplies overrides; a Ranker is cheap
// and holds no mutable state, so concurrent use is safe.
type Ranker struct {
	weights       Weights
	gate          GateConfig
	contextScorer ContextScorer

	// now is injectable for deterministic freshness tests.
	now func() time.Time
}

// NewRanker builds a Ranker with the keyword context-scoring strategy.
func NewRanker(weights Weights, gate GateConfig) *Ranker {
	return &Ranker{
		weights:       weights,
		gate:          gate,
		contextScorer: KeywordContextScorer{},
		now:           time.Now,
	}
}

// WithContextScorer swaps the profile-context scoring strategy.
func (r *Ranker) WithContextScorer(cs ContextScorer) *Ranker {
	r.contextScorer = cs
	return r
}

// RankJob gates then scores a single job for the user. Returns nil only
// when the profile is entirely absent — ranking is meaningless without
// one. An ineligible job yields a zero-score match carrying a single
// synthetic reason naming the failed checks.
func (r *Ranker) RankJob(ctx context.Context, job *model.Job, in RankInputs) *Match {
	if in.Profile == nil {
		return nil
	}

	m := &Match{
		UserID: in.Profile.UserID,
		JobID:  job.ID,
		InputsUsed: InputsUsed{
			ProfileBasics:  true,
			ProfileContext: in.UseProfileContext && in.Profile.ProfileContextText != "",
			Query:          in.Query != "",
		},
	}

	eligibility := CheckEligibility(job, in.Profile, r.gate)
	if !eligibility.Passed {
		m.Reasons = []MatchReason{{
			Factor:      FactorEligibilityFailed,
			Score:       0,
			Description: fmt.Sprintf("Not eligible: %s", strings.Join(eligibility.FailedChecks, ", ")),
		}}
		return m
	}
	m.EligibilityPassed = true

	var total float64
	addReason := func(factor string, raw, weight float64, description string) {
		if raw <= 0 {
			return
		}
		weighted := raw * weight * 100
		if weighted <= 0 {
			return
		}
		total += weighted
		m.Reasons = append(m.Reasons, MatchReason{
			Factor:      factor,
			Score:       weighted,
			Description: description,
		})
	}

	titleRaw, bestTarget := scoreTitleMatch(job, in.Profile.TargetTitles)
	addReason(FactorTitleMatch, titleRaw, r.weights.TitleMatch, describeTitleMatch(titleRaw, bestTarget))

	skillRaw, shared := scoreSkillOverlap(job.Skills, in.Profile.Skills)
	addReason(FactorSkillOverlap, skillRaw, r.weights.SkillOverlap, describeSkillOverlap(shared))

	seniorityRaw := scoreSeniorityAlignment(job.Seniority, in.Profile.Seniority)
	addReason(FactorSeniorityAlignment, seniorityRaw, r.weights.SeniorityAlignment, describeSeniorityAlignment(seniorityRaw, job.Seniority))

	locationRaw := scoreLocationFit(job, in.Profile)
	addReason(FactorLocationFit, locationRaw, r.weights.LocationFit, describeLocationFit(job))

	freshnessRaw, ageDays := scoreFreshness(job, r.now())
	addReason(FactorFreshness, freshnessRaw, r.weights.Freshness, describeFreshness(ageDays))

	sourceRaw := scoreSourceQuality(job.SourcePrimary)
	addReason(FactorSourceQuality, sourceRaw, r.weights.SourceQuality, describeSourceQuality(sourceRaw, job.SourcePrimary))

	if in.Query != "" {
		queryRaw, matched := scoreQueryRelevance(job, in.Query)
		addReason(FactorQueryRelevance, queryRaw, r.weights.QueryRelevance, describeQueryRelevance(matched))
	}

	if m.InputsUsed.ProfileContext && r.weights.ProfileContextSimilarity > 0 {
		contextRaw, err := r.contextScorer.Score(ctx, in.Profile.ProfileContextText, job)
		if err != nil {
			// A failed context scorer degrades to a zero contribution;
			// it must never sink the whole batch.
			slog.Warn("context scorer failed",
				"strategy", r.contextScorer.Name(),
				"jobId", job.ID,
				"err", err,
			)
			contextRaw = 0
		}
		addReason(FactorProfileContextSimilarity, contextRaw, r.weights.ProfileContextSimilarity, describeContextSimilarity(contextRaw))
	}

	m.Score = clampScore(total)

	sort.SliceStable(m.Reasons, func(i, j int) bool {
		return m.Reasons[i].Score > m.Reasons[j].Score
	})
	if len(m.Reasons) > maxReasons {
		m.Reasons = m.Reasons[:maxReasons]
	}

	return m
}

// RankJobs evaluates a batch for one user, keeps the eligible matches
// and returns them ordered by score descending. Jobs are independent —
// no state is shared between evaluations.
func (r *Ranker) RankJobs(ctx context.Context, jobs []*model.Job, in RankInputs) []*Match {
	matches := make([]*Match, 0, len(jobs))
	for _, job := range jobs {
		m := r.RankJob(ctx, job, in)
		if m == nil || !m.EligibilityPassed {
			continue
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// clampScore rounds to the nearest integer within [0,100].
func clampScore(total float64) int {
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return int(math.Round(total))
}
