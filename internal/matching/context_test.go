package matching_test

import (
	"context"
	"testing"

	"jobmate/matching-service/internal/matching"
	"jobmate/matching-service/internal/model"
)

// ── KeywordContextScorer ───────────────────────────────────────────────────

func TestKeywordContextScorer_EmptyNarrativeScoresZero(t *testing.T) {
	scorer := matching.KeywordContextScorer{}
	job := &model.Job{Title: "Backend Engineer", DescriptionText: "Go services"}

	score, err := scorer.Score(context.Background(), "", job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Errorf("empty narrative = %.2f, want 0", score)
	}
}

func TestKeywordContextScorer_StopwordsDoNotInflate(t *testing.T) {
	scorer := matching.KeywordContextScorer{}
	job := &model.Job{
		Title:           "Backend Engineer",
		DescriptionText: "Looking for experience working with a strong team on this role.",
	}

	// Pure boilerplate: every word is either a stopword or too short.
	narrative := "I am looking for a role with a strong team and years of experience"
	score, err := scorer.Score(context.Background(), narrative, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Errorf("boilerplate narrative = %.2f, want 0 (stopwords filtered)", score)
	}
}

func TestKeywordContextScorer_ImportantTermsDoubleWeighted(t *testing.T) {
	scorer := matching.KeywordContextScorer{}
	job := &model.Job{
		Title:           "Senior Backend Engineer",
		DescriptionText: "Kubernetes platform",
	}

	// Terms: kubernetes (important, matched), gardening (plain, not
	// matched). Weighted ratio 2/(2+1), distinguishable from the plain
	// ratio 1/2.
	score, err := scorer.Score(context.Background(), "kubernetes gardening", job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 2.0 / 3.0
	if score < want-0.001 || score > want+0.001 {
		t.Errorf("double-weighted score = %.3f, want %.3f", score, want)
	}
}

func TestKeywordContextScorer_FullAlignment(t *testing.T) {
	scorer := matching.KeywordContextScorer{}
	job := &model.Job{
		Title:           "Senior Platform Engineer",
		DescriptionText: "Kubernetes infrastructure and Golang services",
	}

	score, err := scorer.Score(context.Background(), "senior engineer kubernetes golang infrastructure", job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 1.0 {
		t.Errorf("fully aligned narrative = %.2f, want 1.0", score)
	}
}

// ── Wiring into RankJob ────────────────────────────────────────────────────

func TestRankJob_ContextFactorRequiresOptIn(t *testing.T) {
	weights := onlyWeight(matching.FactorProfileContextSimilarity)
	ranker := matching.NewRanker(weights, matching.DefaultGateConfig())

	profile := basicProfile()
	profile.ProfileContextText = "Senior engineer focused on kubernetes platforms"

	job := remoteJob("j1")
	job.Title = "Senior Platform Engineer"
	job.DescriptionText = "Kubernetes everywhere"

	// Without the opt-in flag the factor must not run.
	m := ranker.RankJob(context.Background(), job, matching.RankInputs{Profile: profile})
	if m.Score != 0 {
		t.Errorf("context factor ran without opt-in, score %d", m.Score)
	}

	// With the opt-in it contributes.
	m = ranker.RankJob(context.Background(), job, matching.RankInputs{Profile: profile, UseProfileContext: true})
	if m.Score == 0 {
		t.Error("context factor did not contribute despite opt-in and narrative")
	}
}

func TestRankJob_ContextFactorDisabledByDefaultWeights(t *testing.T) {
	// The default weighting scheme zeroes this factor; even with
	// opt-in and a narrative it must not appear as a reason.
	ranker := matching.NewRanker(matching.DefaultWeights(), matching.DefaultGateConfig())

	profile := basicProfile()
	profile.ProfileContextText = "Senior engineer focused on kubernetes platforms"

	job := remoteJob("j1")
	job.Title = "Senior Platform Engineer"

	m := ranker.RankJob(context.Background(), job, matching.RankInputs{Profile: profile, UseProfileContext: true})
	for _, reason := range m.Reasons {
		if reason.Factor == matching.FactorProfileContextSimilarity {
			t.Error("context similarity must be weight-zero by default")
		}
	}
}

// errorContextScorer simulates a failing semantic strategy.
type errorContextScorer struct{}

func (errorContextScorer) Name() string { return "exploding" }

func (errorContextScorer) Score(context.Context, string, *model.Job) (float64, error) {
	return 0, context.DeadlineExceeded
}

func TestRankJob_ContextScorerErrorDegradesToZero(t *testing.T) {
	weights := onlyWeight(matching.FactorProfileContextSimilarity)
	ranker := matching.NewRanker(weights, matching.DefaultGateConfig()).
		WithContextScorer(errorContextScorer{})

	profile := basicProfile()
	profile.ProfileContextText = "Senior engineer"

	m := ranker.RankJob(context.Background(), remoteJob("j1"), matching.RankInputs{Profile: profile, UseProfileContext: true})
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if m.Score != 0 || len(m.Reasons) != 0 {
		t.Errorf("failed scorer should contribute nothing, got score %d, reasons %+v", m.Score, m.Reasons)
	}
}
