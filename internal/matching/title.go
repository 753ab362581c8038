package matching

import (
	"fmt"
	"strings"

	"jobmate/matching-service/internal/model"
)

// seniorityQualifiers are rank words stripped from both sides before
// comparing title content, so "Senior Product Manager" still matches a
// "Product Manager" target on every meaningful word.
var seniorityQualifiers = map[string]bool{
	"senior":    true,
	"junior":    true,
	"lead":      true,
	"staff":     true,
	"principal": true,
	"head":      true,
	"chief":     true,
	"vp":        true,
	"director":  true,
}

// jaccardOverrideThreshold is the word-level similarity above which the
// full-title Jaccard score replaces the tiered score (when higher).
// Guards against keyword-soup titles winning by accident while letting
// near-identical titles through at full strength.
const jaccardOverrideThreshold = 0.8

// scoreTitleMatch returns the raw [0,1] title factor for a job against
// the user's target titles, taking the best score across targets.
//
// Per target the score is tiered by how many content words (seniority
// qualifiers stripped) the titles share: identical content sets → 1.0,
// every target word present but the job carries extras → 0.8, all but
// one target word (multi-word targets) → 0.8, at least two → 0.6,
// exactly one → 0.3, none → 0. A word-level Jaccard similarity of the
// unstripped titles overrides the tier when it exceeds
// jaccardOverrideThreshold and is higher. Partial matches like "Senior
// Product Manager, Growth" against "Product Manager" must still score
// highly when every meaningful word is present, while keyword-soup
// titles cannot take the top tier by stuffing extra words.
func scoreTitleMatch(job *model.Job, targetTitles []string) (score float64, bestTarget string) {
	jobTitle := matchTitle(job)
	if jobTitle == "" || len(targetTitles) == 0 {
		return 0, ""
	}

	jobWords := titleWords(jobTitle)
	jobContent := stripQualifiers(jobWords)

	for _, target := range targetTitles {
		targetWords := titleWords(target)
		if len(targetWords) == 0 {
			continue
		}
		targetContent := stripQualifiers(targetWords)

		tier := tieredContentScore(jobContent, targetContent)

		if sim := jaccard(jobWords, targetWords); sim > jaccardOverrideThreshold && sim > tier {
			tier = sim
		}

		if tier > score {
			score = tier
			bestTarget = target
		}
	}

	return score, bestTarget
}

func tieredContentScore(jobContent, targetContent map[string]bool) float64 {
	if len(targetContent) == 0 {
		return 0
	}

	present := 0
	for word := range targetContent {
		if jobContent[word] {
			present++
		}
	}

	switch {
	case present == len(targetContent) && len(jobContent) == len(targetContent):
		return 1.0
	case present == len(targetContent):
		return 0.8
	case len(targetContent) > 1 && present == len(targetContent)-1:
		return 0.8
	case present >= 2:
		return 0.6
	case present == 1:
		return 0.3
	}
	return 0
}

// matchTitle prefers the canonicalized title when ingestion produced one.
func matchTitle(job *model.Job) string {
	if job.NormalizedTitle != "" {
		return job.NormalizedTitle
	}
	return job.Title
}

// titleWords lowercases and splits a title into alphanumeric word sets.
func titleWords(title string) map[string]bool {
	words := make(map[string]bool)
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !isWordRune(r)
	})
	for _, f := range fields {
		words[f] = true
	}
	return words
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '#'
}

func stripQualifiers(words map[string]bool) map[string]bool {
	content := make(map[string]bool, len(words))
	for w := range words {
		if !seniorityQualifiers[w] {
			content[w] = true
		}
	}
	return content
}

// jaccard computes |A∩B| / |A∪B| over two word sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// describeTitleMatch renders the user-facing sentence for the title factor.
func describeTitleMatch(raw float64, bestTarget string) string {
	switch {
	case raw >= 1.0:
		return fmt.Sprintf("Job title closely matches your target role %q", bestTarget)
	case raw >= 0.6:
		return fmt.Sprintf("Job title largely matches your target role %q", bestTarget)
	default:
		return fmt.Sprintf("Job title partially matches your target role %q", bestTarget)
	}
}
