package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"jobmate/matching-service/internal/model"
)

// candidateWindowDays bounds how far back candidate jobs are loaded for
// a ranking run; anything older would land in the lowest freshness tier
// anyway.
const candidateWindowDays = 60

// topMatchesCacheTTL is how long the per-user top-matches page stays in
// Redis before a read falls through to PostgreSQL.
const topMatchesCacheTTL = 15 * time.Minute

// topMatchesCacheSize caps how many matches the cached page holds.
const topMatchesCacheSize = 20

// ─── Service ─────────────────────────────────────────────────────────────────

// Service wires the pure ranking core to PostgreSQL and Redis. It is
// transport-agnostic: used by the HTTP handler and the cron scheduler.
type Service struct {
	pool       *pgxpool.Pool
	rdb        *redis.Client
	gate       GateConfig
	batchLimit int
}

// NewService returns a configured Service. gate carries the deployment's
// eligibility-enforcement flags; batchLimit bounds candidate jobs per run.
func NewService(pool *pgxpool.Pool, rdb *redis.Client, gate GateConfig, batchLimit int) *Service {
	return &Service{pool: pool, rdb: rdb, gate: gate, batchLimit: batchLimit}
}

// RankOptions carries the optional per-call inputs forwarded from the
// request: a free-text query, the profile-context opt-in, and partial
// configuration overrides merged onto the deployment defaults.
type RankOptions struct {
	Query             string
	UseProfileContext bool
	Weights           map[string]float64
	Gate              *GateOverrides
}

// ─── Orchestration ───────────────────────────────────────────────────────────

// RankAndStore runs the full pipeline for one user: load the profile and
// the recent candidate jobs, gate and score every pair, persist the
// surviving matches and return them ordered by score descending.
//
// Scoring never fails — malformed job data degrades to zero
// contributions — so the only error sources are invalid overrides, a
// missing profile, and the storage boundary.
func (s *Service) RankAndStore(ctx context.Context, userID string, opts RankOptions) ([]*Match, error) {
	weights := DefaultWeights().WithOverrides(opts.Weights)
	if !weights.Valid() {
		return nil, &ValidationError{Msg: "factor weights must each be within [0,1] and sum to at most 1.0"}
	}
	gate := s.gate.WithOverrides(opts.Gate)

	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.LoadCandidateJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidate jobs: %w", err)
	}

	ranker := NewRanker(weights, gate)
	matches := ranker.RankJobs(ctx, jobs, RankInputs{
		Profile:           profile,
		Query:             opts.Query,
		UseProfileContext: opts.UseProfileContext,
	})

	if err := s.StoreMatches(ctx, matches); err != nil {
		return nil, err
	}

	// Cache and event publishing are best-effort; the matches table is
	// already consistent at this point.
	s.cacheTopMatches(ctx, userID, matches)
	s.publishMatchesUpdated(ctx, userID, len(matches))

	return matches, nil
}

// ─── Read models ─────────────────────────────────────────────────────────────

// LoadProfile fetches the user's job profile, defaulting malformed enum
// values at this boundary so scoring never sees them.
func (s *Service) LoadProfile(ctx context.Context, userID string) (*model.UserJobProfile, error) {
	var (
		p            model.UserJobProfile
		seniorityRaw string
		contextText  *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, target_titles, COALESCE(seniority::text, ''), skills,
		        locations_allowed, languages, work_authorizations, profile_context
		 FROM job_profiles
		 WHERE user_id = $1`,
		userID,
	).Scan(
		&p.UserID, &p.TargetTitles, &seniorityRaw, &p.Skills,
		&p.LocationsAllowed, &p.Languages, &p.WorkAuthorizations, &contextText,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	p.Seniority = model.ParseSeniority(seniorityRaw)
	p.Skills = model.NormalizeSkills(p.Skills)
	if contextText != nil {
		p.ProfileContextText = *contextText
	}

	return &p, nil
}

// LoadCandidateJobs returns the recent job window, newest first, capped
// at the configured batch limit.
func (s *Service) LoadCandidateJobs(ctx context.Context) ([]*model.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, COALESCE(normalized_title, ''), COALESCE(company_name, ''),
		        COALESCE(description_text, ''), COALESCE(seniority::text, ''),
		        COALESCE(remote_type::text, ''), allowed_countries, skills,
		        COALESCE(language, ''), COALESCE(source_primary, ''),
		        posted_at, first_seen_at
		 FROM jobs
		 WHERE first_seen_at > NOW() - make_interval(days => $1)
		 ORDER BY first_seen_at DESC
		 LIMIT $2`,
		candidateWindowDays, s.batchLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*model.Job, 0, s.batchLimit)
	for rows.Next() {
		var (
			j             model.Job
			seniorityRaw  string
			remoteTypeRaw string
			postedAt      *time.Time
		)
		if err := rows.Scan(
			&j.ID, &j.Title, &j.NormalizedTitle, &j.CompanyName,
			&j.DescriptionText, &seniorityRaw, &remoteTypeRaw,
			&j.AllowedCountries, &j.Skills, &j.Language, &j.SourcePrimary,
			&postedAt, &j.FirstSeenAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.Seniority = model.ParseSeniority(seniorityRaw)
		j.RemoteType = model.ParseRemoteType(remoteTypeRaw)
		j.Skills = model.NormalizeSkills(j.Skills)
		if postedAt != nil {
			j.PostedAt = *postedAt
		}
		jobs = append(jobs, &j)
	}

	return jobs, rows.Err()
}

// LoadActiveUserIDs returns every user with an active job profile, used
// by the scheduler for periodic re-ranking.
func (s *Service) LoadActiveUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM job_profiles WHERE is_active = true`,
	)
	if err != nil {
		return nil, fmt.Errorf("query active profiles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ─── Persistence ─────────────────────────────────────────────────────────────

// StoreMatches upserts the batch keyed on (user_id, job_id): a rerun
// fully overwrites the previous score, reasons and timestamps for each
// pair. Any storage error is fatal to the batch — a partially persisted
// run would leave stale rows next to fresh ones.
func (s *Service) StoreMatches(ctx context.Context, matches []*Match) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range matches {
		reasons, err := json.Marshal(m.Reasons)
		if err != nil {
			return fmt.Errorf("marshal reasons for job %s: %w", m.JobID, err)
		}
		inputs, err := json.Marshal(m.InputsUsed)
		if err != nil {
			return fmt.Errorf("marshal inputs for job %s: %w", m.JobID, err)
		}

		batch.Queue(
			`INSERT INTO matches (user_id, job_id, score, reasons, eligibility_passed, inputs_used, created_at, updated_at)
			 VALUES ($1, $2, $3, $4::jsonb, $5, $6::jsonb, NOW(), NOW())
			 ON CONFLICT (user_id, job_id) DO UPDATE
			 SET score              = EXCLUDED.score,
			     reasons            = EXCLUDED.reasons,
			     eligibility_passed = EXCLUDED.eligibility_passed,
			     inputs_used        = EXCLUDED.inputs_used,
			     updated_at         = NOW()`,
			m.UserID, m.JobID, m.Score, reasons, m.EligibilityPassed, inputs,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range matches {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert match: %w", err)
		}
	}

	return nil
}

// ListMatches returns the user's stored matches, score descending. The
// Redis top page is consulted first; a miss falls through to PostgreSQL.
func (s *Service) ListMatches(ctx context.Context, userID string, limit int) ([]*Match, error) {
	if limit <= 0 || limit > s.batchLimit {
		limit = topMatchesCacheSize
	}

	if cached, ok := s.cachedTopMatches(ctx, userID); ok && len(cached) >= limit {
		return cached[:limit], nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT user_id, job_id, score, reasons, eligibility_passed, inputs_used,
		        created_at, updated_at
		 FROM matches
		 WHERE user_id = $1
		 ORDER BY score DESC, updated_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*Match, 0, limit)
	for rows.Next() {
		var (
			m          Match
			reasonsRaw []byte
			inputsRaw  []byte
		)
		if err := rows.Scan(
			&m.UserID, &m.JobID, &m.Score, &reasonsRaw, &m.EligibilityPassed,
			&inputsRaw, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if err := json.Unmarshal(reasonsRaw, &m.Reasons); err != nil {
			return nil, fmt.Errorf("unmarshal reasons: %w", err)
		}
		if err := json.Unmarshal(inputsRaw, &m.InputsUsed); err != nil {
			return nil, fmt.Errorf("unmarshal inputs: %w", err)
		}
		matches = append(matches, &m)
	}

	return matches, rows.Err()
}

// ─── Redis ───────────────────────────────────────────────────────────────────

func topMatchesKey(userID string) string {
	return "matches:top:" + userID
}

// cacheTopMatches stores the first page of a fresh ranking run for the
// gateway job-feed view. Failures are logged, never propagated.
func (s *Service) cacheTopMatches(ctx context.Context, userID string, matches []*Match) {
	top := matches
	if len(top) > topMatchesCacheSize {
		top = top[:topMatchesCacheSize]
	}

	payload, err := json.Marshal(top)
	if err != nil {
		slog.Warn("marshal top matches for cache failed", "userId", userID, "err", err)
		return
	}

	if err := s.rdb.Set(ctx, topMatchesKey(userID), payload, topMatchesCacheTTL).Err(); err != nil {
		slog.Warn("cache top matches failed", "userId", userID, "err", err)
	}
}

func (s *Service) cachedTopMatches(ctx context.Context, userID string) ([]*Match, bool) {
	payload, err := s.rdb.Get(ctx, topMatchesKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("read top matches cache failed", "userId", userID, "err", err)
		}
		return nil, false
	}

	var matches []*Match
	if err := json.Unmarshal(payload, &matches); err != nil {
		slog.Warn("unmarshal top matches cache failed", "userId", userID, "err", err)
		return nil, false
	}

	return matches, true
}

// publishMatchesUpdated notifies the Gateway that the user's ranked feed
// changed (forwarded as SSE). Non-fatal.
func (s *Service) publishMatchesUpdated(ctx context.Context, userID string, count int) {
	event, _ := json.Marshal(map[string]any{
		"type":       "EVENT_MATCHES_UPDATED",
		"userId":     userID,
		"matchCount": count,
	})
	if err := s.rdb.Publish(ctx, "EVENT_MATCHES_UPDATED", event).Err(); err != nil {
		slog.Warn("publish EVENT_MATCHES_UPDATED failed", "userId", userID, "err", err)
	}
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrProfileNotFound is returned when the user has no job profile yet.
var ErrProfileNotFound = fmt.Errorf("job profile not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
