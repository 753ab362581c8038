package matching_test

import (
	"context"
	"testing"

	"jobmate/matching-service/internal/matching"
	"jobmate/matching-service/internal/model"
)

// titleScore isolates the title factor: with a weight of 1.0 the match
// score equals the raw tier × 100.
func titleScore(t *testing.T, jobTitle string, targets []string) int {
	t.Helper()
	ranker := matching.NewRanker(onlyWeight(matching.FactorTitleMatch), matching.DefaultGateConfig())
	m := ranker.RankJob(context.Background(), &model.Job{ID: "j1", Title: jobTitle, RemoteType: model.RemoteTypeRemote},
		matching.RankInputs{Profile: &model.UserJobProfile{UserID: "u1", TargetTitles: targets}})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	return m.Score
}

// ── Tier ordering ──────────────────────────────────────────────────────────

func TestTitleMatch_TierOrdering(t *testing.T) {
	targets := []string{"Product Manager"}

	exact := titleScore(t, "Product Manager", targets)
	strippedExact := titleScore(t, "Senior Product Manager", targets)
	partial := titleScore(t, "Product Marketing Manager", targets)
	none := titleScore(t, "Data Scientist", targets)

	if exact != 100 {
		t.Errorf("exact title = %d, want 100", exact)
	}
	if strippedExact != 100 {
		t.Errorf("seniority-stripped exact title = %d, want 100", strippedExact)
	}
	if partial >= strippedExact {
		t.Errorf("partial (%d) should score below stripped-exact (%d)", partial, strippedExact)
	}
	if partial <= none {
		t.Errorf("partial (%d) should score above no-match (%d)", partial, none)
	}
	if none != 0 {
		t.Errorf("unrelated title = %d, want 0", none)
	}
}

func TestTitleMatch_AllButOneContentWord(t *testing.T) {
	// Target has three content words; the job title carries two of them.
	score := titleScore(t, "Product Manager", []string{"Technical Product Manager"})
	if score != 80 {
		t.Errorf("all-but-one tier = %d, want 80", score)
	}
}

func TestTitleMatch_SingleWordPresent(t *testing.T) {
	score := titleScore(t, "Engineering Manager", []string{"Product Manager"})
	if score != 30 {
		t.Errorf("one-word tier = %d, want 30", score)
	}
}

func TestTitleMatch_QualifiersStrippedBothSides(t *testing.T) {
	// "Senior" and "Lead" are rank words on both sides; content reduces
	// to {product, manager} vs {product, manager}.
	score := titleScore(t, "Lead Product Manager", []string{"Senior Product Manager"})
	if score != 100 {
		t.Errorf("qualifier-stripped match = %d, want 100", score)
	}
}

// ── Jaccard ceiling-breaker ────────────────────────────────────────────────

func TestTitleMatch_HighSimilarityOverridesTier(t *testing.T) {
	// All five target words present plus one extra lands in the 0.8
	// tier, but the full-title similarity of 5/6 ≈ 0.83 exceeds the
	// override threshold and wins.
	score := titleScore(t,
		"Machine Learning Platform Infrastructure Engineer Berlin",
		[]string{"Machine Learning Platform Infrastructure Engineer"},
	)
	if score != 83 {
		t.Errorf("similarity override = %d, want 83", score)
	}
}

// ── Multiple targets ───────────────────────────────────────────────────────

func TestTitleMatch_BestTargetWins(t *testing.T) {
	score := titleScore(t, "Data Engineer", []string{"Product Manager", "Data Engineer"})
	if score != 100 {
		t.Errorf("best target should win, got %d, want 100", score)
	}
}

func TestTitleMatch_NoTargetsScoresZero(t *testing.T) {
	score := titleScore(t, "Backend Engineer", nil)
	if score != 0 {
		t.Errorf("no targets = %d, want 0 (factor contributes nothing)", score)
	}
}

// ── Normalized title preference ────────────────────────────────────────────

func TestTitleMatch_UsesNormalizedTitle(t *testing.T) {
	ranker := matching.NewRanker(onlyWeight(matching.FactorTitleMatch), matching.DefaultGateConfig())
	job := &model.Job{
		ID:              "j1",
		Title:           "PM (f/m/x) — join our rocketship!!!",
		NormalizedTitle: "Product Manager",
		RemoteType:      model.RemoteTypeRemote,
	}
	m := ranker.RankJob(context.Background(), job,
		matching.RankInputs{Profile: &model.UserJobProfile{UserID: "u1", TargetTitles: []string{"Product Manager"}}})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if m.Score != 100 {
		t.Errorf("canonicalized title should match exactly, got %d", m.Score)
	}
}
