package matching

// Factor identifiers used in MatchReason.Factor and in per-call weight
// overrides. They mirror the keys exposed to the gateway API.
const (
	FactorTitleMatch               = "title_match"
	FactorSkillOverlap             = "skill_overlap"
	FactorSeniorityAlignment       = "seniority_alignment"
	FactorLocationFit              = "location_fit"
	FactorFreshness                = "freshness"
	FactorSourceQuality            = "source_quality"
	FactorQueryRelevance           = "query_relevance"
	FactorProfileContextSimilarity = "profile_context_similarity"

	// FactorEligibilityFailed is the synthetic reason recorded on a
	// match that did not pass the eligibility gate.
	FactorEligibilityFailed = "eligibility_failed"
)

// Weights holds the per-factor weighting scheme. Each weight multiplies
// a raw [0,1] factor score onto the 0–100 total, so the weights of all
// enabled factors must sum to at most 1.0.
//
// Weights is a value type: callers copy the defaults and merge their
// overrides per call. There is deliberately no shared mutable default —
// concurrent callers running different tuning experiments must not
// interfere.
type Weights struct {
	TitleMatch               float64
	SkillOverlap             float64
	SeniorityAlignment       float64
	LocationFit              float64
	Freshness                float64
	SourceQuality            float64
	QueryRelevance           float64
	ProfileContextSimilarity float64
}

// DefaultWeights returns the production weighting scheme.
//
// Title match dominates on purpose: users trust title relevance far more
// than secondary signals, and an earlier equal-weighting scheme produced
// poor-feeling rankings. Profile-context similarity starts at zero — it
// caused noisy, hard-to-explain matches and is opt-in via override.
func DefaultWeights() Weights {
	return Weights{
		TitleMatch:               0.45,
		SkillOverlap:             0.15,
		SeniorityAlignment:       0.10,
		LocationFit:              0.05,
		Freshness:                0.10,
		SourceQuality:            0.05,
		QueryRelevance:           0.10,
		ProfileContextSimilarity: 0.00,
	}
}

// WithOverrides returns a copy of w with the given by-factor-name
// overrides applied. Unknown factor names are ignored so that a stale
// gateway payload cannot break ranking.
func (w Weights) WithOverrides(overrides map[string]float64) Weights {
	for name, value := range overrides {
		switch name {
		case FactorTitleMatch:
			w.TitleMatch = value
		case FactorSkillOverlap:
			w.SkillOverlap = value
		case FactorSeniorityAlignment:
			w.SeniorityAlignment = value
		case FactorLocationFit:
			w.LocationFit = value
		case FactorFreshness:
			w.Freshness = value
		case FactorSourceQuality:
			w.SourceQuality = value
		case FactorQueryRelevance:
			w.QueryRelevance = value
		case FactorProfileContextSimilarity:
			w.ProfileContextSimilarity = value
		}
	}
	return w
}

// Sum returns the total of all factor weights. Used to validate that a
// merged weighting scheme cannot push the total past 100.
func (w Weights) Sum() float64 {
	return w.TitleMatch + w.SkillOverlap + w.SeniorityAlignment +
		w.LocationFit + w.Freshness + w.SourceQuality +
		w.QueryRelevance + w.ProfileContextSimilarity
}

// Valid reports whether every weight is within [0,1] and the sum does
// not exceed 1.0.
func (w Weights) Valid() bool {
	for _, v := range []float64{
		w.TitleMatch, w.SkillOverlap, w.SeniorityAlignment, w.LocationFit,
		w.Freshness, w.SourceQuality, w.QueryRelevance, w.ProfileContextSimilarity,
	} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return w.Sum() <= 1.0+1e-9
}

// GateConfig toggles the individual eligibility checks.
type GateConfig struct {
	EnforceRemote   bool // drop onsite jobs
	EnforceLocation bool // drop jobs with no allowed-country overlap
	EnforceLanguage bool // record (never enforce) language mismatches
}

// DefaultGateConfig returns the production gate settings: remote and
// location filtering on, language tracking off.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		EnforceRemote:   true,
		EnforceLocation: true,
		EnforceLanguage: false,
	}
}

// GateOverrides carries optional per-call gate toggles. Nil fields keep
// the base setting.
type GateOverrides struct {
	EnforceRemote   *bool `json:"enforceRemote"`
	EnforceLocation *bool `json:"enforceLocation"`
	EnforceLanguage *bool `json:"enforceLanguage"`
}

// WithOverrides returns a copy of g with non-nil override fields applied.
func (g GateConfig) WithOverrides(o *GateOverrides) GateConfig {
	if o == nil {
		return g
	}
	if o.EnforceRemote != nil {
		g.EnforceRemote = *o.EnforceRemote
	}
	if o.EnforceLocation != nil {
		g.EnforceLocation = *o.EnforceLocation
	}
	if o.EnforceLanguage != nil {
		g.EnforceLanguage = *o.EnforceLanguage
	}
	return g
}
