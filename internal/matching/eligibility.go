// Package matching implements the job ranking core for the matching
// service: a pass/fail eligibility gate followed by an explainable
// multi-factor relevance score.
//
// The scoring code is pure — no database or network calls — so it can
// run over every (job, profile) pair of a batch cheaply. All persistence
// lives in service.go.
package matching

import (
	"strings"

	"jobmate/matching-service/internal/model"
)

// Named eligibility checks recorded in EligibilityResult.FailedChecks.
const (
	CheckJobIsOnsite        = "job_is_onsite"
	CheckLocationNotAllowed = "location_not_allowed"
	CheckLanguageMismatch   = "language_mismatch"
)

// EligibilityResult is the outcome of the gate for one (job, profile)
// pair. Passed is true iff FailedChecks contains no hard failure —
// language_mismatch is a soft signal and never fails the gate.
type EligibilityResult struct {
	Passed       bool
	FailedChecks []string
}

// CheckEligibility decides whether a job should ever be shown or scored
// for a user, independent of how well it would score. Gate failures are
// expected, frequent outcomes — they are data, not errors.
//
// A nil profile always passes: there are no preferences to violate.
func CheckEligibility(job *model.Job, profile *model.UserJobProfile, cfg GateConfig) EligibilityResult {
	if profile == nil {
		return EligibilityResult{Passed: true}
	}

	var failed []string

	// Onsite jobs are filtered rather than down-weighted: no relevance
	// score should be able to compensate for a hard dealbreaker.
	if cfg.EnforceRemote && job.RemoteType == model.RemoteTypeOnsite {
		failed = append(failed, CheckJobIsOnsite)
	}

	if cfg.EnforceLocation && len(profile.LocationsAllowed) > 0 && len(job.AllowedCountries) > 0 {
		if !countriesOverlap(job.AllowedCountries, profile.LocationsAllowed) {
			failed = append(failed, CheckLocationNotAllowed)
		}
	}

	// Work-authorization check: intentionally a no-op. The jobs read
	// model carries no job-side authorization requirement to compare
	// profile.WorkAuthorizations against. Known gap, not a bug.

	// Language mismatch is tracked but excluded from the overall verdict
	// below — a soft signal for the gateway, never a hard failure.
	if cfg.EnforceLanguage && len(profile.Languages) > 0 && job.Language != "" {
		if !containsFold(profile.Languages, job.Language) {
			failed = append(failed, CheckLanguageMismatch)
		}
	}

	passed := true
	for _, check := range failed {
		if check != CheckLanguageMismatch {
			passed = false
			break
		}
	}

	return EligibilityResult{Passed: passed, FailedChecks: failed}
}

// countriesOverlap reports whether the two country lists intersect,
// treating the Worldwide sentinel on either side as a universal match.
func countriesOverlap(jobCountries, userCountries []string) bool {
	if containsFold(jobCountries, model.Worldwide) || containsFold(userCountries, model.Worldwide) {
		return true
	}
	for _, jc := range jobCountries {
		if containsFold(userCountries, jc) {
			return true
		}
	}
	return false
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
