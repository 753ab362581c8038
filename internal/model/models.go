// Package model defines the read models consumed by the matching service.
//
// Job rows are produced by the discovery-service ingestion pipeline and
// job profiles by the profile management service; both are read-only
// here. Raw values coming from those collaborators are validated and
// defaulted at this boundary so the scoring code never has to deal with
// malformed data.
package model

import (
	"strings"
	"time"
)

// Worldwide is the sentinel country value meaning "no geographic
// restriction". It matches any location on either side.
const Worldwide = "Worldwide"

// Seniority mirrors the seniority_level enum in PostgreSQL.
type Seniority string

const (
	SeniorityUnset     Seniority = ""
	SeniorityIntern    Seniority = "INTERN"
	SeniorityJunior    Seniority = "JUNIOR"
	SeniorityMid       Seniority = "MID"
	SenioritySenior    Seniority = "SENIOR"
	SeniorityExecutive Seniority = "EXECUTIVE"
)

// seniorityOrdinals maps each level to its position on the career ladder,
// used for distance-based alignment scoring.
var seniorityOrdinals = map[Seniority]int{
	SeniorityIntern:    0,
	SeniorityJunior:    1,
	SeniorityMid:       2,
	SenioritySenior:    3,
	SeniorityExecutive: 4,
}

// ParseSeniority converts a raw string to a Seniority. Unknown or empty
// values default to SeniorityUnset rather than erroring — a single
// malformed job must not abort scoring for a whole batch.
func ParseSeniority(s string) Seniority {
	switch Seniority(strings.ToUpper(strings.TrimSpace(s))) {
	case SeniorityIntern:
		return SeniorityIntern
	case SeniorityJunior:
		return SeniorityJunior
	case SeniorityMid:
		return SeniorityMid
	case SenioritySenior:
		return SenioritySenior
	case SeniorityExecutive:
		return SeniorityExecutive
	}
	return SeniorityUnset
}

// Ordinal returns the ladder position for s. ok is false for
// SeniorityUnset, which scoring treats as neutral instead of mismatched.
func (s Seniority) Ordinal() (ordinal int, ok bool) {
	ordinal, ok = seniorityOrdinals[s]
	return ordinal, ok
}

// RemoteType mirrors the remote_type enum in PostgreSQL.
type RemoteType string

const (
	RemoteTypeUnset  RemoteType = ""
	RemoteTypeRemote RemoteType = "remote"
	RemoteTypeHybrid RemoteType = "hybrid"
	RemoteTypeOnsite RemoteType = "onsite"
)

// ParseRemoteType converts a raw string to a RemoteType, defaulting
// unknown values to RemoteTypeUnset.
func ParseRemoteType(s string) RemoteType {
	switch RemoteType(strings.ToLower(strings.TrimSpace(s))) {
	case RemoteTypeRemote:
		return RemoteTypeRemote
	case RemoteTypeHybrid:
		return RemoteTypeHybrid
	case RemoteTypeOnsite:
		return RemoteTypeOnsite
	}
	return RemoteTypeUnset
}

// Job is a normalised job posting from the jobs read model.
type Job struct {
	ID               string
	Title            string
	NormalizedTitle  string
	CompanyName      string
	DescriptionText  string
	Seniority        Seniority
	RemoteType       RemoteType
	AllowedCountries []string // country names, or the Worldwide sentinel
	Skills           []string // deduplicated, compared case-insensitively
	Language         string   // ISO language code, may be empty
	SourcePrimary    string   // ingestion source identifier, e.g. "adzuna"
	PostedAt         time.Time
	FirstSeenAt      time.Time
}

// EffectivePostedAt returns PostedAt when the source supplied it,
// otherwise the time the offer was first seen by discovery.
func (j *Job) EffectivePostedAt() time.Time {
	if !j.PostedAt.IsZero() {
		return j.PostedAt
	}
	return j.FirstSeenAt
}

// UserJobProfile is a user's job-search preference set from the
// job_profiles read model.
type UserJobProfile struct {
	UserID             string
	TargetTitles       []string // ordered by user preference
	Seniority          Seniority
	Skills             []string
	LocationsAllowed   []string // empty means no location preference
	Languages          []string // ISO language codes
	WorkAuthorizations []string // advisory only, see matching gate
	ProfileContextText string   // optional free-form career narrative
}

// NormalizeSkills deduplicates a skill list case-insensitively,
// preserving first-seen casing and order. Called at the boundary so
// overlap scoring can assume clean sets.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
