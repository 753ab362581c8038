package matching_test

import (
	"context"
	"testing"
	"time"

	"jobmate/matching-service/internal/matching"
	"jobmate/matching-service/internal/model"
)

// onlyWeight builds a weighting scheme with a single non-zero factor so
// a test can read a factor's raw score straight off the total (raw×100).
func onlyWeight(factor string) matching.Weights {
	return matching.Weights{}.WithOverrides(map[string]float64{factor: 1.0})
}

func remoteJob(id string) *model.Job {
	return &model.Job{
		ID:          id,
		Title:       "Backend Engineer",
		RemoteType:  model.RemoteTypeRemote,
		FirstSeenAt: time.Now(),
	}
}

func basicProfile() *model.UserJobProfile {
	return &model.UserJobProfile{UserID: "u1"}
}

// ── RankJob contract ───────────────────────────────────────────────────────

func TestRankJob_NilProfileReturnsNil(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	if m := ranker.RankJob(context.Background(), remoteJob("j1"), matching.RankInputs{}); m != nil {
		t.Errorf("RankJob without a profile should return nil, got %+v", m)
	}
}

func TestRankJob_IneligibleJobScoresZero(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	job := remoteJob("j1")
	job.RemoteType = model.RemoteTypeOnsite

	m := ranker.RankJob(context.Background(), job, matching.RankInputs{Profile: basicProfile()})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if m.EligibilityPassed {
		t.Error("onsite job must not pass eligibility")
	}
	if m.Score != 0 {
		t.Errorf("ineligible match score = %d, want 0", m.Score)
	}
	if len(m.Reasons) != 1 || m.Reasons[0].Factor != matching.FactorEligibilityFailed {
		t.Errorf("expected a single %s reason, got %+v", matching.FactorEligibilityFailed, m.Reasons)
	}
}

func TestRankJob_ScoreWithinBounds(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	profile := &model.UserJobProfile{
		UserID:       "u1",
		TargetTitles: []string{"Backend Engineer"},
		Seniority:    model.SenioritySenior,
		Skills:       []string{"Go", "PostgreSQL"},
	}
	job := remoteJob("j1")
	job.Seniority = model.SenioritySenior
	job.Skills = []string{"Go", "PostgreSQL"}
	job.SourcePrimary = "weworkremotely"

	m := ranker.RankJob(context.Background(), job, matching.RankInputs{Profile: profile, Query: "backend go"})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if m.Score < 0 || m.Score > 100 {
		t.Errorf("score %d outside [0,100]", m.Score)
	}
	for _, reason := range m.Reasons {
		if reason.Score <= 0 {
			t.Errorf("reason %s has non-positive score %.2f", reason.Factor, reason.Score)
		}
	}
}

func TestRankJob_ZeroFactorsProduceNoReasons(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	// Profile with no titles, skills or locations: only seniority
	// (neutral), freshness, and source quality can contribute.
	m := ranker.RankJob(context.Background(), remoteJob("j1"), matching.RankInputs{Profile: basicProfile()})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	for _, reason := range m.Reasons {
		switch reason.Factor {
		case matching.FactorTitleMatch, matching.FactorSkillOverlap, matching.FactorQueryRelevance:
			t.Errorf("factor %s scored zero and must not appear as a reason", reason.Factor)
		}
	}
}

func TestRankJob_ReasonsSortedAndCapped(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	profile := &model.UserJobProfile{
		UserID:           "u1",
		TargetTitles:     []string{"Backend Engineer"},
		Seniority:        model.SenioritySenior,
		Skills:           []string{"Go"},
		LocationsAllowed: []string{model.Worldwide},
	}
	job := remoteJob("j1")
	job.Seniority = model.SenioritySenior
	job.Skills = []string{"Go"}
	job.AllowedCountries = []string{model.Worldwide}
	job.SourcePrimary = "remoteok"
	job.DescriptionText = "Backend engineering with Go"

	// Seven factors contribute; the reasons list must keep the top five,
	// score descending.
	m := ranker.RankJob(context.Background(), job, matching.RankInputs{Profile: profile, Query: "backend"})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if len(m.Reasons) != 5 {
		t.Fatalf("expected 5 reasons, got %d: %+v", len(m.Reasons), m.Reasons)
	}
	for i := 1; i < len(m.Reasons); i++ {
		if m.Reasons[i].Score > m.Reasons[i-1].Score {
			t.Errorf("reasons not sorted descending at %d: %+v", i, m.Reasons)
		}
	}
}

func TestRankJob_InputsUsedRecorded(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	profile := basicProfile()
	profile.ProfileContextText = "Senior engineer moving into platform work"

	m := ranker.RankJob(context.Background(), remoteJob("j1"), matching.RankInputs{
		Profile:           profile,
		Query:             "platform",
		UseProfileContext: true,
	})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if !m.InputsUsed.ProfileBasics || !m.InputsUsed.ProfileContext || !m.InputsUsed.Query {
		t.Errorf("inputs_used should record all supplied signals, got %+v", m.InputsUsed)
	}

	// Opting in without a narrative must not claim the context signal.
	m = ranker.RankJob(context.Background(), remoteJob("j2"), matching.RankInputs{
		Profile:           basicProfile(),
		UseProfileContext: true,
	})
	if m.InputsUsed.ProfileContext {
		t.Error("profile context input recorded despite empty narrative")
	}
}

// ── RankJobs batch semantics ───────────────────────────────────────────────

func TestRankJobs_DropsIneligibleAndSortsDescending(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	profile := &model.UserJobProfile{
		UserID:       "u1",
		TargetTitles: []string{"Backend Engineer"},
	}

	weak := remoteJob("weak")
	weak.Title = "Accountant"

	strong := remoteJob("strong")
	strong.Title = "Backend Engineer"

	onsite := remoteJob("onsite")
	onsite.RemoteType = model.RemoteTypeOnsite

	matches := ranker.RankJobs(context.Background(), []*model.Job{weak, onsite, strong}, matching.RankInputs{Profile: profile})
	if len(matches) != 2 {
		t.Fatalf("expected 2 eligible matches, got %d", len(matches))
	}
	if matches[0].JobID != "strong" {
		t.Errorf("best match = %s, want strong", matches[0].JobID)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches not sorted by score descending")
	}
}

func TestRankJobs_NilProfileYieldsEmpty(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	matches := ranker.RankJobs(context.Background(), []*model.Job{remoteJob("j1")}, matching.RankInputs{})
	if len(matches) != 0 {
		t.Errorf("expected no matches without a profile, got %d", len(matches))
	}
}

// ── End-to-end scenario ────────────────────────────────────────────────────

func TestRankJob_EndToEndScenario(t *testing.T) {
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())
	profile := &model.UserJobProfile{
		UserID:           "u1",
		TargetTitles:     []string{"Senior Product Manager"},
		Seniority:        model.SenioritySenior,
		Skills:           []string{"SQL", "A/B Testing"},
		LocationsAllowed: []string{model.Worldwide},
	}
	job := &model.Job{
		ID:               "j1",
		Title:            "Senior Product Manager",
		Seniority:        model.SenioritySenior,
		Skills:           []string{"SQL", "Figma"},
		RemoteType:       model.RemoteTypeRemote,
		AllowedCountries: []string{model.Worldwide},
		PostedAt:         time.Now().Add(-2 * 24 * time.Hour),
		SourcePrimary:    "weworkremotely",
	}

	m := ranker.RankJob(context.Background(), job, matching.RankInputs{Profile: profile})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if !m.EligibilityPassed {
		t.Fatal("scenario job should be eligible")
	}
	if m.Score <= 70 {
		t.Errorf("near-perfect match scored %d, want > 70", m.Score)
	}

	byFactor := make(map[string]matching.MatchReason, len(m.Reasons))
	for _, reason := range m.Reasons {
		byFactor[reason.Factor] = reason
	}
	title, ok := byFactor[matching.FactorTitleMatch]
	if !ok {
		t.Fatal("title_match reason missing")
	}
	if title.Score < 44 || title.Score > 45 {
		t.Errorf("title_match contribution = %.2f, want ≈ weight×100 = 45", title.Score)
	}
	if _, ok := byFactor[matching.FactorSkillOverlap]; !ok {
		t.Error("skill_overlap reason missing (1 of min(2,2) shared)")
	}
	if _, ok := byFactor[matching.FactorSeniorityAlignment]; !ok {
		t.Error("seniority_alignment reason missing (exact match)")
	}
	if _, ok := byFactor[matching.FactorFreshness]; !ok {
		t.Error("freshness reason missing (posted 2 days ago)")
	}
}
